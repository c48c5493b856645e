package services

import (
	"testing"

	"driverrating/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActiveDriversSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDriverService(db)

	require.NoError(t, db.Create(&models.Driver{
		Name: "Aibek", LastName: "Omarov", PhoneNumber: "+7 701 111 2233", CarNumber: "KZ 123 ABC", IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.Driver{
		Name: "Marat", LastName: "Seitov", CarNumber: "KZ 456 DEF", IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.Driver{
		Name: "Aibek", LastName: "Hidden", IsActive: false,
	}).Error)

	drivers, err := svc.GetActiveDrivers("")
	require.NoError(t, err)
	assert.Len(t, drivers, 2)

	drivers, err = svc.GetActiveDrivers("AIBEK")
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Omarov", drivers[0].LastName)

	drivers, err = svc.GetActiveDrivers("456")
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Marat", drivers[0].Name)

	drivers, err = svc.GetActiveDrivers("seit")
	require.NoError(t, err)
	assert.Len(t, drivers, 1)

	drivers, err = svc.GetActiveDrivers("no-such-driver")
	require.NoError(t, err)
	assert.Empty(t, drivers)
}

func TestDriverLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDriverService(db)

	driver, err := svc.CreateDriver(&CreateDriverRequest{Name: "Aibek", LastName: "Omarov"})
	require.NoError(t, err)
	assert.True(t, driver.IsActive)
	assert.Equal(t, "Omarov Aibek", driver.DisplayName())

	inactive := false
	updated, err := svc.UpdateDriver(driver.ID, &UpdateDriverRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Aibek", updated.Name)

	active, err := svc.GetActiveDrivers("")
	require.NoError(t, err)
	assert.Empty(t, active)

	// Deactivated drivers stay visible to admins.
	all, err := svc.GetDrivers()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.GetDriverByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
