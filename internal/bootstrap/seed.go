package bootstrap

import (
	"log"

	"github.com/vietlabs/base-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.Permission{},
		&model.User{},
		&model.File{},
		&model.Topic{},
		&model.Template{},
		&model.Notification{},
		&model.Device{},
		&model.Faq{},
		&model.Request{},
	)
}

// SeedAdminUser creates a development admin account the first time the app
// boots. Intended for APP_ENV=development only.
func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@example.com").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:     "admin@example.com",
		Password:  string(hashed),
		FirstName: "System",
		LastName:  "Administrator",
		IsActive:  true,
		Roles:     []model.Role{adminRole},
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded: admin@example.com / admin123")
	return nil
}
