// Package catalog holds the read-only product list the storefront sells.
package catalog

// Category names used by the default catalog and coupon registry.
const (
	CategoryElectronics = "electronics"
	CategoryGrocery     = "grocery"
	CategoryFood        = "food"
	CategoryFashion     = "fashion"
)

// Product is an immutable catalog entry. Price is in minor currency units.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

// Catalog is a static product lookup. It is safe for concurrent reads.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// New builds a catalog from products, keeping their order.
// A later product with a duplicate ID replaces the earlier lookup entry.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[string]Product, len(products)),
	}
	copy(c.products, products)
	for _, p := range products {
		c.byID[p.ID] = p
	}
	return c
}

// Default returns the demo storefront catalog.
func Default() *Catalog {
	return New(defaultProducts)
}

// Lookup finds a product by ID.
func (c *Catalog) Lookup(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// All returns the products in catalog order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

var defaultProducts = []Product{
	{ID: "p1", Name: "Wireless Headphones", Price: 1499, Category: CategoryElectronics},
	{ID: "p2", Name: "Fitness Band", Price: 999, Category: CategoryElectronics},
	{ID: "p3", Name: "Coffee Beans (500g)", Price: 499, Category: CategoryGrocery},
	{ID: "p4", Name: "Running Shoes", Price: 2499, Category: CategoryFashion},
	{ID: "p5", Name: "T-Shirt Pack", Price: 799, Category: CategoryFashion},
	{ID: "p6", Name: "Protein Bar Box", Price: 1299, Category: CategoryGrocery},
	{ID: "p7", Name: "Bluetooth Speaker", Price: 1899, Category: CategoryElectronics},
	{ID: "p8", Name: "Smartwatch Pro", Price: 3499, Category: CategoryElectronics},
	{ID: "p9", Name: "Organic Honey (1kg)", Price: 649, Category: CategoryGrocery},
	{ID: "p10", Name: "Almond Pack (500g)", Price: 899, Category: CategoryGrocery},
	{ID: "p11", Name: "Denim Jacket", Price: 1799, Category: CategoryFashion},
	{ID: "p12", Name: "Sneakers White", Price: 1599, Category: CategoryFashion},
	{ID: "p13", Name: "USB Cable 3-Pack", Price: 299, Category: CategoryElectronics},
	{ID: "p14", Name: "Green Tea (250g)", Price: 399, Category: CategoryGrocery},
	{ID: "p15", Name: "Cotton Socks Pack", Price: 199, Category: CategoryFashion},
}
