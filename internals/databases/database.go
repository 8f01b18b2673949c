package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	academicModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/academics/model"
	annModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/announcements/model"
	childModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/model"
	classModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/model"
	msgModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/messages/model"
	payModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/payments/model"
	schoolModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/schools/model"
	userModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
)

var DB *gorm.DB

func ConnectDB() {
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=froebel&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // transaction pooling friendly
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	DB = db
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
}

// Migrate keeps the schema current. Order matters: owners before owned.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schoolModel.SchoolModel{},
		&userModel.UserModel{},
		&classModel.ClassroomModel{},
		&childModel.ChildModel{},
		&childModel.ParentChildLinkModel{},
		&childModel.TeacherChildLinkModel{},
		&annModel.AnnouncementModel{},
		&annModel.ActivityModel{},
		&msgModel.LiaisonMessageModel{},
		&academicModel.ReportCardModel{},
		&academicModel.ScheduleFileModel{},
		&payModel.PaymentModel{},
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
