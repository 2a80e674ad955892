package services

import (
	"academic-registry-api/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

// PaperRegistryName keys the registry's retained citation earnings.
const PaperRegistryName = "papers"

// PaperService owns paper ownership records, citations, and the citation fee
// split. Creation is open to any caller; ownership is minted to the creator.
type PaperService struct {
	db *gorm.DB
}

func NewPaperService(db *gorm.DB) *PaperService {
	return &PaperService{db: db}
}

// CreatePaper mints a new paper record to the caller.
func (s *PaperService) CreatePaper(caller Caller, ipfsHash, doi, metadataURI string) (*models.Paper, error) {
	var paper models.Paper
	err := s.db.Transaction(func(tx *gorm.DB) error {
		paper = models.Paper{
			OwnerID:     caller.UserID,
			IpfsHash:    ipfsHash,
			DOI:         doi,
			MetadataURI: metadataURI,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&paper).Error; err != nil {
			return err
		}

		if err := recordEvent(tx, EventDataItemCreated, dataItemCreatedPayload{
			TokenID:  paper.PaperID,
			Owner:    caller.UserID,
			IpfsHash: ipfsHash,
		}); err != nil {
			return err
		}
		return recordEvent(tx, EventDOIUpdated, doiUpdatedPayload{
			TokenID: paper.PaperID,
			DOI:     doi,
		})
	})
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// UpdatePaper replaces the content hash and metadata. Owner only.
func (s *PaperService) UpdatePaper(caller Caller, paperID int, ipfsHash, metadataURI string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		paper, err := findPaper(tx, paperID)
		if err != nil {
			return err
		}
		if paper.OwnerID != caller.UserID {
			return authorizationError("Not authorized")
		}
		return tx.Model(&models.Paper{}).
			Where("paper_id = ?", paperID).
			Updates(map[string]interface{}{
				"ipfs_hash":    ipfsHash,
				"metadata_uri": metadataURI,
			}).Error
	})
}

// Cite appends a paid citation. The payment must meet the base citation fee
// and is split exactly 95% to the paper owner, 5% retained by the registry.
func (s *PaperService) Cite(caller Caller, paperID int, amount int64) (*models.Citation, error) {
	var citation models.Citation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		paper, err := findPaper(tx, paperID)
		if err != nil {
			return err
		}
		if amount < models.BaseCitationFee {
			return paymentError("Insufficient fee")
		}

		if err := debitBalance(tx, caller.UserID, amount); err != nil {
			return err
		}
		ownerShare := amount * models.CitationOwnerPercent / 100
		if err := creditBalance(tx, paper.OwnerID, ownerShare); err != nil {
			return err
		}
		if err := addRegistryEarning(tx, PaperRegistryName, amount-ownerShare); err != nil {
			return err
		}

		citation = models.Citation{
			PaperID:   paperID,
			CiterID:   caller.UserID,
			Amount:    amount,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&citation).Error; err != nil {
			return err
		}

		return recordEvent(tx, EventPaperCited, paperCitedPayload{
			PaperID: paperID,
			Citer:   caller.UserID,
			Amount:  amount,
		})
	})
	if err != nil {
		return nil, err
	}
	return &citation, nil
}

// GetPaper returns one paper.
func (s *PaperService) GetPaper(paperID int) (*models.Paper, error) {
	return findPaper(s.db, paperID)
}

// GetCitations returns a paper's citation list in append order.
func (s *PaperService) GetCitations(paperID int) ([]models.Citation, error) {
	if _, err := findPaper(s.db, paperID); err != nil {
		return nil, err
	}
	var citations []models.Citation
	err := s.db.Where("paper_id = ?", paperID).Order("citation_id ASC").Find(&citations).Error
	return citations, err
}

// PapersByOwner returns every paper owned by a user.
func (s *PaperService) PapersByOwner(ownerID int) ([]models.Paper, error) {
	var papers []models.Paper
	err := s.db.Where("owner_id = ?", ownerID).Order("paper_id ASC").Find(&papers).Error
	return papers, err
}

// TotalPapers returns the registry size.
func (s *PaperService) TotalPapers() (int64, error) {
	var count int64
	err := s.db.Model(&models.Paper{}).Count(&count).Error
	return count, err
}

// RetainedEarnings reports the registry's accumulated citation cut.
func (s *PaperService) RetainedEarnings() (int64, error) {
	var earning models.RegistryEarning
	err := s.db.Where("registry = ?", PaperRegistryName).First(&earning).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return earning.TotalRetained, nil
}

func findPaper(tx *gorm.DB, paperID int) (*models.Paper, error) {
	var paper models.Paper
	if err := tx.Where("paper_id = ?", paperID).First(&paper).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Paper not found")
		}
		return nil, err
	}
	return &paper, nil
}
