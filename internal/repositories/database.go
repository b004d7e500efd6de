package repository

import (
	"database/sql"
	"fmt"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/config"
	"github.com/XSAM/otelsql"

	_ "github.com/lib/pq"
)

// Repositories bundles one repository per collection over a shared pool.
type Repositories struct {
	DB *sql.DB

	User         UserRepository
	Product      ProductRepository
	Category     CategoryRepository
	Brand        BrandRepository
	Cart         CartRepository
	Order        OrderRepository
	Notification NotificationRepository
	Blog         BlogRepository
	Contact      ContactRepository
	Subscriber   SubscriberRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repositories{
		DB:           db,
		User:         NewUserRepo(db),
		Product:      NewProductRepo(db),
		Category:     NewCategoryRepo(db),
		Brand:        NewBrandRepo(db),
		Cart:         NewCartRepo(db),
		Order:        NewOrderRepo(db),
		Notification: NewNotificationRepo(db),
		Blog:         NewBlogRepo(db),
		Contact:      NewContactRepo(db),
		Subscriber:   NewSubscriberRepo(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
