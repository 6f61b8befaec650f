package services

import (
	"storefront/internal/models"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

type ProductService interface {
	GetAllProducts() ([]models.Product, error)
	GetProduct(id string) (*models.Product, error)
	GetProductsByCategory(category string) ([]models.Product, error)
	SearchProducts(query string) ([]models.Product, error)
	SeedDefaultCatalog() error
}

type productService struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

func NewProductService(repo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{repo: repo, logger: logger}
}

func (s *productService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

func (s *productService) GetProduct(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

func (s *productService) GetProductsByCategory(category string) ([]models.Product, error) {
	return s.repo.GetByCategory(category)
}

func (s *productService) SearchProducts(query string) ([]models.Product, error) {
	return s.repo.Search(query)
}

// SeedDefaultCatalog loads the starter catalog when the products table is
// empty, so a fresh install has something to sell.
func (s *productService) SeedDefaultCatalog() error {
	count, err := s.repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	s.logger.Info("seeding product catalog", zap.Int("products", len(defaultCatalog)))
	return s.repo.CreateBatch(defaultCatalog)
}

var defaultCatalog = []models.Product{
	{ID: "prod-laptop-001", Name: "ProBook 14 Laptop", SKU: "LPT-PB14", Category: "laptops", Brand: "TechCore", Description: "14-inch business laptop, 16GB RAM, 512GB SSD", Price: 899.99, Stock: 25},
	{ID: "prod-laptop-002", Name: "UltraSlim 13 Laptop", SKU: "LPT-US13", Category: "laptops", Brand: "TechCore", Description: "13-inch ultraportable, 8GB RAM, 256GB SSD", Price: 649.00, Stock: 40},
	{ID: "prod-monitor-001", Name: "27\" 4K Monitor", SKU: "MON-4K27", Category: "monitors", Brand: "ViewMax", Description: "27-inch IPS 4K display with USB-C", Price: 379.50, Stock: 60},
	{ID: "prod-monitor-002", Name: "24\" FHD Monitor", SKU: "MON-FHD24", Category: "monitors", Brand: "ViewMax", Description: "24-inch budget office display", Price: 129.99, Stock: 120},
	{ID: "prod-kb-001", Name: "Mechanical Keyboard", SKU: "KB-MECH01", Category: "peripherals", Brand: "KeyWorks", Description: "Tenkeyless mechanical keyboard, brown switches", Price: 89.00, Stock: 80},
	{ID: "prod-mouse-001", Name: "Wireless Mouse", SKU: "MS-WL01", Category: "peripherals", Brand: "KeyWorks", Description: "Ergonomic wireless mouse, 2.4GHz receiver", Price: 29.99, Stock: 200},
	{ID: "prod-dock-001", Name: "USB-C Docking Station", SKU: "DK-USBC01", Category: "accessories", Brand: "TechCore", Description: "Dual-display dock with 65W power delivery", Price: 159.00, Stock: 45},
	{ID: "prod-ssd-001", Name: "1TB NVMe SSD", SKU: "SSD-NV1T", Category: "storage", Brand: "DataVault", Description: "PCIe Gen4 NVMe drive, 7000MB/s read", Price: 109.90, Stock: 150},
	{ID: "prod-ram-001", Name: "32GB DDR5 Kit", SKU: "RAM-D532", Category: "components", Brand: "DataVault", Description: "2x16GB DDR5-5600 memory kit", Price: 134.50, Stock: 90},
	{ID: "prod-router-001", Name: "WiFi 6 Router", SKU: "NET-WF6R", Category: "networking", Brand: "NetLink", Description: "Dual-band WiFi 6 router with 4 gigabit ports", Price: 119.00, Stock: 70},
}
