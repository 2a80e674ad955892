package models

import "time"

// Dataset access levels. Public datasets bypass the grant check entirely.
const (
	AccessNone  = 0
	AccessRead  = 1
	AccessWrite = 2
)

type Dataset struct {
	DatasetID   int       `gorm:"primaryKey;column:dataset_id" json:"dataset_id"`
	OwnerID     int       `gorm:"column:owner_id" json:"owner_id"`
	IpfsHash    string    `gorm:"column:ipfs_hash" json:"ipfs_hash"`
	Price       int64     `gorm:"column:price" json:"price"`
	IsPublic    bool      `gorm:"column:is_public" json:"is_public"`
	TotalEarned int64     `gorm:"column:total_earned" json:"total_earned"`
	IsFrozen    bool      `gorm:"column:is_frozen" json:"is_frozen"`
	MetadataURI string    `gorm:"column:metadata_uri" json:"metadata_uri"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`

	Owner    *User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Versions []DatasetVersion `gorm:"foreignKey:DatasetID" json:"versions,omitempty"`
}

// DatasetVersion is the ordered content history; version 1 is written at
// creation and every successful update appends one row.
type DatasetVersion struct {
	VersionID   int       `gorm:"primaryKey;column:version_id" json:"version_id"`
	DatasetID   int       `gorm:"column:dataset_id" json:"dataset_id"`
	IpfsHash    string    `gorm:"column:ipfs_hash" json:"ipfs_hash"`
	MetadataURI string    `gorm:"column:metadata_uri" json:"metadata_uri"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// DatasetAccess is the per-dataset grant map and doubles as the authorized
// user enumeration. Granting AccessNone deletes the row on both paths.
type DatasetAccess struct {
	ID        int       `gorm:"primaryKey;column:id" json:"id"`
	DatasetID int       `gorm:"column:dataset_id;uniqueIndex:idx_dataset_user" json:"dataset_id"`
	UserID    int       `gorm:"column:user_id;uniqueIndex:idx_dataset_user" json:"user_id"`
	Level     int       `gorm:"column:level" json:"level"`
	GrantedAt time.Time `gorm:"column:granted_at" json:"granted_at"`
}

func (Dataset) TableName() string {
	return "datasets"
}

func (DatasetVersion) TableName() string {
	return "dataset_versions"
}

func (DatasetAccess) TableName() string {
	return "dataset_access"
}
