package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"storefront/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogRepository is the read-only product list. It never changes after
// construction.
type CatalogRepository interface {
	GetProduct(id int) (p models.Product, exists bool)
	All() []models.Product
}

type Catalog struct {
	products []models.Product
	byId     map[int]int
}

func NewCatalog(products []models.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		byId:     make(map[int]int, len(products)),
	}
	for _, p := range products {
		if p.Id <= 0 {
			return nil, fmt.Errorf("product id %d: %w", p.Id, models.ErrBadRequest)
		}
		if _, dup := c.byId[p.Id]; dup {
			return nil, fmt.Errorf("duplicate product id %d: %w", p.Id, models.ErrBadRequest)
		}
		if p.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("product %d has negative price: %w", p.Id, models.ErrBadRequest)
		}
		if !isValidLen(p.Name, 1, 100) {
			return nil, fmt.Errorf("product %d name: %w", p.Id, models.ErrBadRequest)
		}
		c.byId[p.Id] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// NewStaticCatalog returns the built-in storefront range.
func NewStaticCatalog() *Catalog {
	c, err := NewCatalog([]models.Product{
		{
			Id:          1,
			Name:        "Aurora Oud",
			Brand:       "Luminous Scents",
			UnitPrice:   decimal.RequireFromString("89.99"),
			Notes:       "Oud, amber, vanilla",
			Description: "Warm and deep evening scent with a rich oud base.",
		},
		{
			Id:          2,
			Name:        "Citrus Dawn",
			Brand:       "Luminous Scents",
			UnitPrice:   decimal.RequireFromString("59.99"),
			Notes:       "Bergamot, lemon, neroli",
			Description: "Fresh daytime fragrance that is bright and uplifting.",
		},
		{
			Id:          3,
			Name:        "Velvet Iris",
			Brand:       "Luminous Scents",
			UnitPrice:   decimal.RequireFromString("74.50"),
			Notes:       "Iris, violet, sandalwood",
			Description: "Soft floral scent with a creamy sandalwood base.",
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads the products table once. The query carries no
// parameters so it runs unchanged on sqlite3 and postgres.
func LoadCatalog(ctx context.Context, conn *sql.DB, logger *zap.Logger) (*Catalog, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rows, err := conn.QueryContext(ctx, "SELECT id, name, brand, price, notes, description FROM products ORDER BY id")
	if err != nil {
		logger.Error("load catalog failed", zap.Error(err))
		return nil, models.ErrServerError
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var brand, notes, description sql.NullString
		err = rows.Scan(&p.Id, &p.Name, &brand, &p.UnitPrice, &notes, &description)
		if err != nil {
			logger.Error("scan catalog row failed", zap.Error(err))
			return nil, models.ErrServerError
		}
		p.Brand = brand.String
		p.Notes = notes.String
		p.Description = description.String
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		logger.Error("iterate catalog rows failed", zap.Error(err))
		return nil, models.ErrServerError
	}
	logger.Info("catalog loaded", zap.Int("products", len(products)))
	return NewCatalog(products)
}

func (c *Catalog) GetProduct(id int) (p models.Product, exists bool) {
	i, ok := c.byId[id]
	if !ok {
		return
	}
	return c.products[i], true
}

func (c *Catalog) All() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func isValidLen(input string, minLen int, maxLen int) bool {
	inputLen := utf8.RuneCountInString(input)
	if inputLen < minLen || inputLen > maxLen {
		return false
	}
	return true
}
