package services

import (
	"academic-registry-api/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

// DatasetService owns dataset ownership, per-dataset access grants, and the
// versioned content history. Structurally parallel to the paper registry but
// fully independent of it.
type DatasetService struct {
	db *gorm.DB
}

func NewDatasetService(db *gorm.DB) *DatasetService {
	return &DatasetService{db: db}
}

// CreateDataset mints a dataset to the caller and records version 1.
func (s *DatasetService) CreateDataset(caller Caller, ipfsHash string, price int64, isPublic bool, metadataURI string) (*models.Dataset, error) {
	if price < 0 {
		return nil, stateError("Price must not be negative")
	}

	var dataset models.Dataset
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		dataset = models.Dataset{
			OwnerID:     caller.UserID,
			IpfsHash:    ipfsHash,
			Price:       price,
			IsPublic:    isPublic,
			MetadataURI: metadataURI,
			CreatedAt:   now,
		}
		if err := tx.Create(&dataset).Error; err != nil {
			return err
		}

		version := models.DatasetVersion{
			DatasetID:   dataset.DatasetID,
			IpfsHash:    ipfsHash,
			MetadataURI: metadataURI,
			CreatedAt:   now,
		}
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		return recordEvent(tx, EventDataItemCreated, dataItemCreatedPayload{
			TokenID:  dataset.DatasetID,
			Owner:    caller.UserID,
			IpfsHash: ipfsHash,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

// UpdateDataset replaces the content and appends a version. Owner only;
// frozen datasets reject updates.
func (s *DatasetService) UpdateDataset(caller Caller, datasetID int, ipfsHash, metadataURI string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		dataset, err := findDataset(tx, datasetID)
		if err != nil {
			return err
		}
		if dataset.OwnerID != caller.UserID {
			return authorizationError("Not authorized")
		}
		if dataset.IsFrozen {
			return stateError("Data is frozen")
		}

		if err := tx.Model(&models.Dataset{}).
			Where("dataset_id = ?", datasetID).
			Updates(map[string]interface{}{
				"ipfs_hash":    ipfsHash,
				"metadata_uri": metadataURI,
			}).Error; err != nil {
			return err
		}

		version := models.DatasetVersion{
			DatasetID:   datasetID,
			IpfsHash:    ipfsHash,
			MetadataURI: metadataURI,
			CreatedAt:   time.Now(),
		}
		return tx.Create(&version).Error
	})
}

// Freeze toggles the frozen flag. Owner only, reversible.
func (s *DatasetService) Freeze(caller Caller, datasetID int, frozen bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		dataset, err := findDataset(tx, datasetID)
		if err != nil {
			return err
		}
		if dataset.OwnerID != caller.UserID {
			return authorizationError("Not authorized")
		}
		return tx.Model(&models.Dataset{}).
			Where("dataset_id = ?", datasetID).
			Update("is_frozen", frozen).Error
	})
}

// GrantAccess sets a grantee's access level. Owner only. AccessNone revokes
// the grant and removes the grantee from the authorized list on the same path.
func (s *DatasetService) GrantAccess(caller Caller, datasetID, granteeID, level int) error {
	if level < models.AccessNone || level > models.AccessWrite {
		return stateError("Invalid access level")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		dataset, err := findDataset(tx, datasetID)
		if err != nil {
			return err
		}
		if dataset.OwnerID != caller.UserID {
			return authorizationError("Not owner")
		}

		if level == models.AccessNone {
			if err := tx.Where("dataset_id = ? AND user_id = ?", datasetID, granteeID).
				Delete(&models.DatasetAccess{}).Error; err != nil {
				return err
			}
		} else {
			var grant models.DatasetAccess
			err := tx.Where("dataset_id = ? AND user_id = ?", datasetID, granteeID).First(&grant).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				grant = models.DatasetAccess{
					DatasetID: datasetID,
					UserID:    granteeID,
					Level:     level,
					GrantedAt: time.Now(),
				}
				if err := tx.Create(&grant).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				if err := tx.Model(&models.DatasetAccess{}).
					Where("dataset_id = ? AND user_id = ?", datasetID, granteeID).
					Update("level", level).Error; err != nil {
					return err
				}
			}
		}

		return recordEvent(tx, EventAccessGranted, accessGrantedPayload{
			TokenID: datasetID,
			Grantee: granteeID,
			Level:   level,
		})
	})
}

// RequestAccess resolves an access request. Public datasets and the owner get
// through for free; anyone else needs a grant of at least Read and, for priced
// datasets, a payment of at least the price, forwarded to the owner.
func (s *DatasetService) RequestAccess(caller Caller, datasetID int, payment int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		dataset, err := findDataset(tx, datasetID)
		if err != nil {
			return err
		}

		paid := int64(0)
		if !dataset.IsPublic && dataset.OwnerID != caller.UserID {
			level, err := accessLevel(tx, datasetID, caller.UserID)
			if err != nil {
				return err
			}
			if level < models.AccessRead {
				return authorizationError("Not authorized")
			}
			if payment < dataset.Price {
				return paymentError("Insufficient payment")
			}
			if payment > 0 {
				if err := debitBalance(tx, caller.UserID, payment); err != nil {
					return err
				}
				if err := creditBalance(tx, dataset.OwnerID, payment); err != nil {
					return err
				}
				if err := tx.Model(&models.Dataset{}).
					Where("dataset_id = ?", datasetID).
					Update("total_earned", gorm.Expr("total_earned + ?", payment)).Error; err != nil {
					return err
				}
				paid = payment
			}
		}

		return recordEvent(tx, EventDataAccessed, dataAccessedPayload{
			TokenID:    datasetID,
			Accessor:   caller.UserID,
			AmountPaid: paid,
		})
	})
}

// GetDataset returns one dataset.
func (s *DatasetService) GetDataset(datasetID int) (*models.Dataset, error) {
	return findDataset(s.db, datasetID)
}

// GetVersions returns the ordered content history.
func (s *DatasetService) GetVersions(datasetID int) ([]models.DatasetVersion, error) {
	if _, err := findDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	var versions []models.DatasetVersion
	err := s.db.Where("dataset_id = ?", datasetID).Order("version_id ASC").Find(&versions).Error
	return versions, err
}

// CheckAccessLevel reports a user's grant on a dataset.
func (s *DatasetService) CheckAccessLevel(datasetID, userID int) (int, error) {
	if _, err := findDataset(s.db, datasetID); err != nil {
		return models.AccessNone, err
	}
	return accessLevel(s.db, datasetID, userID)
}

// AuthorizedUsers enumerates every user holding a grant on the dataset.
func (s *DatasetService) AuthorizedUsers(datasetID int) ([]int, error) {
	if _, err := findDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	var grants []models.DatasetAccess
	if err := s.db.Where("dataset_id = ?", datasetID).Order("id ASC").Find(&grants).Error; err != nil {
		return nil, err
	}
	users := make([]int, 0, len(grants))
	for _, grant := range grants {
		users = append(users, grant.UserID)
	}
	return users, nil
}

func accessLevel(tx *gorm.DB, datasetID, userID int) (int, error) {
	var grant models.DatasetAccess
	err := tx.Where("dataset_id = ? AND user_id = ?", datasetID, userID).First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AccessNone, nil
	}
	if err != nil {
		return models.AccessNone, err
	}
	return grant.Level, nil
}

func findDataset(tx *gorm.DB, datasetID int) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := tx.Where("dataset_id = ?", datasetID).First(&dataset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Dataset not found")
		}
		return nil, err
	}
	return &dataset, nil
}
