package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// CatalogConfig is the seed catalog: the fixed category set and the items a
// reset restores.
type CatalogConfig struct {
	Categories []CategorySeed `mapstructure:"categories"`
}

type CategorySeed struct {
	Name        string     `mapstructure:"name"`
	QuickPrices []float64  `mapstructure:"quick_prices"`
	AllowCustom bool       `mapstructure:"allow_custom"`
	TrackStock  bool       `mapstructure:"track_stock"`
	Items       []ItemSeed `mapstructure:"items"`
}

type ItemSeed struct {
	ID    string  `mapstructure:"id"`
	Name  string  `mapstructure:"name"`
	Price float64 `mapstructure:"price"`
	Stock int     `mapstructure:"stock"`
}

// LoadCatalog reads a YAML catalog from path. An empty path returns the
// built-in catalog.
func LoadCatalog(path string) (*CatalogConfig, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var cat CatalogConfig
	if err := v.Unmarshal(&cat); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(cat.Categories) == 0 {
		return nil, fmt.Errorf("catalog %s defines no categories", path)
	}

	seen := make(map[string]bool, len(cat.Categories))
	for i, c := range cat.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("catalog %s: category %d has no name", path, i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("catalog %s: duplicate category %q", path, c.Name)
		}
		seen[c.Name] = true
	}
	return &cat, nil
}

// DefaultCatalog is the stall's built-in catalog.
func DefaultCatalog() *CatalogConfig {
	return &CatalogConfig{
		Categories: []CategorySeed{
			{
				Name:        "Candy",
				QuickPrices: []float64{0.25, 0.5, 1, 2},
				TrackStock:  true,
				Items: []ItemSeed{
					{ID: "candy-lollipop", Name: "Lollipop", Price: 0.5, Stock: 50},
					{ID: "candy-gummy-bears", Name: "Gummy Bears", Price: 2, Stock: 20},
					{ID: "candy-chocolate-bar", Name: "Chocolate Bar", Price: 1.5, Stock: 24},
					{ID: "candy-rock-candy", Name: "Rock Candy", Price: 3, Stock: 10},
				},
			},
			{
				Name:        "Thrift",
				QuickPrices: []float64{1, 2, 5, 10},
				AllowCustom: true,
			},
			{
				Name:        "Pet",
				QuickPrices: []float64{2, 5},
				AllowCustom: true,
				TrackStock:  true,
				Items: []ItemSeed{
					{ID: "pet-dog-treats", Name: "Dog Treats", Price: 5, Stock: 12},
					{ID: "pet-cat-toy", Name: "Cat Toy", Price: 3, Stock: 8},
					{ID: "pet-bandana", Name: "Pet Bandana", Price: 8, Stock: 6},
				},
			},
			{
				Name:        "Music",
				QuickPrices: []float64{1, 3, 5, 10},
				AllowCustom: true,
			},
			{
				Name:        "Books",
				QuickPrices: []float64{0.5, 1, 2, 5},
				AllowCustom: true,
			},
			{
				Name:        "Crafts",
				AllowCustom: true,
				TrackStock:  true,
				Items: []ItemSeed{
					{ID: "crafts-bracelet", Name: "Friendship Bracelet", Price: 4, Stock: 15},
					{ID: "crafts-keychain", Name: "Beaded Keychain", Price: 3, Stock: 15},
					{ID: "crafts-candle", Name: "Soy Candle", Price: 12, Stock: 5},
				},
			},
		},
	}
}
