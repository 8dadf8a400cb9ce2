// internal/discovery/usb/database.go
package usb

import "github.com/google/gousb"

// VendorDatabase names the USB vendors that ship ESC/POS receipt printers
type VendorDatabase struct {
	vendors map[gousb.ID]*VendorInfo
}

// VendorInfo contains vendor-specific information
type VendorInfo struct {
	Name     string
	products map[gousb.ID]string
}

// NewVendorDatabase creates and initializes the vendor database
func NewVendorDatabase() *VendorDatabase {
	db := &VendorDatabase{vendors: make(map[gousb.ID]*VendorInfo)}
	db.initializeDatabase()
	return db
}

func (db *VendorDatabase) initializeDatabase() {
	db.AddVendor(0x04B8, "Epson", map[gousb.ID]string{
		0x0202: "TM-T88IV",
		0x0203: "TM-T88V",
		0x0e15: "TM-T20II",
		0x0e27: "TM-T20III",
	})
	db.AddVendor(0x0B1B, "Bematech", map[gousb.ID]string{
		0x0003: "MP-4200 TH",
	})
	db.AddVendor(0x20D1, "Elgin", map[gousb.ID]string{
		0x7008: "i9",
		0x7007: "i7",
	})
	db.AddVendor(0x0519, "Star Micronics", map[gousb.ID]string{
		0x0003: "TSP100",
	})
	db.AddVendor(0x1D90, "Citizen", nil)
	db.AddVendor(0x1504, "Bixolon", map[gousb.ID]string{
		0x0006: "SRP-350plusIII",
	})
	db.AddVendor(0x0416, "Winbond (generic 58mm)", map[gousb.ID]string{
		0x5011: "POS58",
	})
	db.AddVendor(0x0FE6, "ICS Advent (generic 80mm)", map[gousb.ID]string{
		0x811E: "POS80",
	})
}

// IsKnownVendor checks if a vendor ID is in the database
func (db *VendorDatabase) IsKnownVendor(vendorID gousb.ID) bool {
	_, exists := db.vendors[vendorID]
	return exists
}

// GetVendorInfo retrieves vendor information
func (db *VendorDatabase) GetVendorInfo(vendorID gousb.ID) *VendorInfo {
	return db.vendors[vendorID]
}

// Model returns the known model name of a product
func (vi *VendorInfo) Model(productID gousb.ID) (string, bool) {
	model, ok := vi.products[productID]
	return model, ok
}

// AddVendor adds or replaces a vendor
func (db *VendorDatabase) AddVendor(vendorID gousb.ID, name string, products map[gousb.ID]string) {
	if products == nil {
		products = make(map[gousb.ID]string)
	}
	db.vendors[vendorID] = &VendorInfo{Name: name, products: products}
}
