package apply

import (
	"time"
)

// SchemaApplication records one successful run of a schema file.
type SchemaApplication struct {
	Checksum   string    `gorm:"primaryKey;size:64"`
	Name       string    `gorm:"not null"`
	Statements int       `gorm:"not null"`
	AppliedAt  time.Time `gorm:"not null"`
}

func (SchemaApplication) TableName() string { return "schema_applications" }

// Version is the short form of the checksum shown in listings.
func (a SchemaApplication) Version() string {
	if len(a.Checksum) > 12 {
		return a.Checksum[:12]
	}
	return a.Checksum
}
