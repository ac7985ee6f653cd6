package repo

import (
	"cataloghub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter narrows List and Count queries.
type ProductFilter struct {
	SKU         string
	Name        string
	Description string
	IsActive    *bool
}

// Upsert creates or updates a product keyed on its case-normalized SKU.
// The lookup and write run in one transaction so a row is never half-updated.
func (r *ProductRepository) Upsert(product *models.Product) (*models.Product, bool, error) {
	var saved *models.Product
	var created bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		err := tx.Where("sku = ?", models.NormalizeSKU(product.SKU)).First(&existing).Error

		if err == gorm.ErrRecordNotFound {
			if createErr := tx.Create(product).Error; createErr != nil {
				return createErr
			}
			saved = product
			created = true
			return nil
		}
		if err != nil {
			return err
		}

		existing.Name = product.Name
		existing.Description = product.Description
		existing.Price = product.Price
		if product.ImageURL != "" {
			existing.ImageURL = product.ImageURL
		}
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		saved = &existing
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return saved, created, nil
}

func (r *ProductRepository) GetByID(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *ProductRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll removes every product and returns how many were deleted.
func (r *ProductRepository) DeleteAll() (int64, error) {
	result := r.db.Where("1 = 1").Delete(&models.Product{})
	return result.RowsAffected, result.Error
}

// List lists products with filters and pagination
func (r *ProductRepository) List(filter ProductFilter, page, perPage int) (*models.PaginationResult[models.Product], error) {
	var products []models.Product
	var total int64

	query := r.applyFilter(r.db.Model(&models.Product{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * perPage
	if err := query.Order("created_at DESC").Offset(offset).Limit(perPage).Find(&products).Error; err != nil {
		return nil, err
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	return &models.PaginationResult[models.Product]{
		Data:       products,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// Count counts products matching a filter
func (r *ProductRepository) Count(filter ProductFilter) (int64, error) {
	var total int64
	err := r.applyFilter(r.db.Model(&models.Product{}), filter).Count(&total).Error
	return total, err
}

func (r *ProductRepository) applyFilter(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.SKU != "" {
		query = query.Where("sku ILIKE ?", "%"+filter.SKU+"%")
	}
	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Description != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Description+"%")
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}
