package services

import (
	"errors"
	"strings"

	"driverrating/models"

	"gorm.io/gorm"
)

type DriverService struct {
	db *gorm.DB
}

func NewDriverService(db *gorm.DB) *DriverService {
	return &DriverService{db: db}
}

type CreateDriverRequest struct {
	LastName    string `json:"last_name"`
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	CarNumber   string `json:"car_number"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateDriverRequest struct {
	LastName    *string `json:"last_name"`
	Name        string  `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	CarNumber   *string `json:"car_number"`
	IsActive    *bool   `json:"is_active"`
}

// GetActiveDrivers lists active drivers, optionally filtered by a
// case-insensitive substring match on name, last name, phone or car number.
func (s *DriverService) GetActiveDrivers(search string) ([]models.Driver, error) {
	query := s.db.Where("is_active = ?", true)
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(phone_number) LIKE ? OR LOWER(car_number) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var drivers []models.Driver
	err := query.Order("id").Find(&drivers).Error
	return drivers, err
}

func (s *DriverService) GetDrivers() ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.Order("id").Find(&drivers).Error
	return drivers, err
}

func (s *DriverService) GetDriverByID(driverID uint) (*models.Driver, error) {
	var driver models.Driver
	err := s.db.First(&driver, driverID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &driver, nil
}

func (s *DriverService) CreateDriver(req *CreateDriverRequest) (*models.Driver, error) {
	driver := models.Driver{
		LastName:    req.LastName,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		CarNumber:   req.CarNumber,
		IsActive:    true,
	}
	if req.IsActive != nil {
		driver.IsActive = *req.IsActive
	}

	if err := s.db.Create(&driver).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

func (s *DriverService) UpdateDriver(driverID uint, req *UpdateDriverRequest) (*models.Driver, error) {
	driver, err := s.GetDriverByID(driverID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		driver.Name = req.Name
	}
	if req.LastName != nil {
		driver.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		driver.PhoneNumber = *req.PhoneNumber
	}
	if req.CarNumber != nil {
		driver.CarNumber = *req.CarNumber
	}
	if req.IsActive != nil {
		driver.IsActive = *req.IsActive
	}

	if err := s.db.Save(driver).Error; err != nil {
		return nil, err
	}
	return driver, nil
}

// Drivers are never hard-deleted: responses keep referencing them for
// reporting. Deactivation via UpdateDriver hides them from the public list.
