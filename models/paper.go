package models

import "time"

// BaseCitationFee is the minimum payment accepted by Cite, in credits.
// The 95/5 split below it is a protocol invariant, not configuration.
const (
	BaseCitationFee      = 100000
	CitationOwnerPercent = 95
)

// Paper is the paper registry record; ownership is minted to the creator and
// creation is deliberately ungated.
type Paper struct {
	PaperID     int       `gorm:"primaryKey;column:paper_id" json:"paper_id"`
	OwnerID     int       `gorm:"column:owner_id" json:"owner_id"`
	IpfsHash    string    `gorm:"column:ipfs_hash" json:"ipfs_hash"`
	DOI         string    `gorm:"column:doi" json:"doi"`
	MetadataURI string    `gorm:"column:metadata_uri" json:"metadata_uri"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`

	Owner     *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Citations []Citation `gorm:"foreignKey:PaperID" json:"citations,omitempty"`
}

// Citation is an append-only paid link to a paper.
type Citation struct {
	CitationID int       `gorm:"primaryKey;column:citation_id" json:"citation_id"`
	PaperID    int       `gorm:"column:paper_id" json:"paper_id"`
	CiterID    int       `gorm:"column:citer_id" json:"citer_id"`
	Amount     int64     `gorm:"column:amount" json:"amount"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// RegistryEarning accumulates the 5% citation cut retained by the registry.
type RegistryEarning struct {
	Registry      string `gorm:"primaryKey;column:registry" json:"registry"`
	TotalRetained int64  `gorm:"column:total_retained" json:"total_retained"`
}

func (Paper) TableName() string {
	return "papers"
}

func (Citation) TableName() string {
	return "citations"
}

func (RegistryEarning) TableName() string {
	return "registry_earnings"
}
