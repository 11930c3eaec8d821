// Package testmodels declares the gorm models used by the generation and
// query tests: a wide model covering every field kind, a small hierarchy
// with relations, a reference cycle and the marker model variants.
package testmodels

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ormbridge/ormbridge/introspect"
)

// Status is an enumerated int field type.
type Status int

const (
	StatusDraft     Status = 1
	StatusPublished Status = 2
	StatusArchived  Status = 3
)

// EnumValues lists the members of Status.
func (Status) EnumValues() []introspect.EnumValue {
	return []introspect.EnumValue{
		{Name: "StatusDraft", Value: StatusDraft, Label: "draft"},
		{Name: "StatusPublished", Value: StatusPublished, Label: "published"},
		{Name: "StatusArchived", Value: StatusArchived, Label: "archived"},
	}
}

// Priority is an enumerated string field type.
type Priority string

const (
	PriorityLow  Priority = "low"
	PriorityHigh Priority = "high"
)

// EnumValues lists the members of Priority.
func (Priority) EnumValues() []introspect.EnumValue {
	return []introspect.EnumValue{
		{Name: "PriorityLow", Value: PriorityLow, Label: "low"},
		{Name: "PriorityHigh", Value: PriorityHigh, Label: "high"},
	}
}

// WideModel exercises every mappable field kind.
type WideModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:120;uniqueIndex"`
	Summary   string
	Active    bool    `gorm:"default:true"`
	Rank      int32   `gorm:"default:10"`
	Big       int64
	Small     int16
	Score     float64
	Amount    string  `gorm:"type:decimal(12,4);precision:12;scale:4"`
	Payload   json.RawMessage
	Token     uuid.UUID `gorm:"type:uuid"`
	Blob      []byte
	Retry     time.Duration
	BornOn    time.Time     `gorm:"type:date"`
	CreatedAt time.Time
	Email     string `gorm:"size:254" bridge:"kind:email"`
	Homepage  string `bridge:"kind:url"`
	Slug      string `bridge:"kind:slug"`
	LastIP    string `bridge:"kind:ipaddr"`
	Avatar    string `bridge:"kind:file"`
	Shape     string `bridge:"kind:geometry"` // no mapping exists for this one
	Status    Status
	Priority  Priority `gorm:"size:10"`
	Note      *string
}

// TableName fixes the source table.
func (WideModel) TableName() string { return "wide_models" }

// FieldDefaults declares runtime defaults. The nil note is an explicit
// null default, not an absent one.
func (WideModel) FieldDefaults() map[string]interface{} {
	return map[string]interface{}{
		"status":   StatusDraft,
		"priority": PriorityLow,
		"note":     nil,
	}
}

// Department is the root of the demo hierarchy.
type Department struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
	Code string `gorm:"size:10;uniqueIndex:idx_dept_identity"`
	Site string `gorm:"size:50;uniqueIndex:idx_dept_identity"`
}

// Team belongs to a department.
type Team struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	DepartmentID uint
	Department   Department `gorm:"constraint:OnDelete:CASCADE" bridge:"related_name:teams"`
}

// Badge is the one-to-one target of Employee.
type Badge struct {
	ID     uint `gorm:"primaryKey"`
	Serial string
}

// Employee carries a nullable foreign key and a one-to-one relation.
type Employee struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:80"`
	TeamID  *uint
	Team    *Team `gorm:"constraint:OnDelete:SET NULL" bridge:"related_name:members"`
	BadgeID uint  `gorm:"unique"`
	Badge   Badge `gorm:"constraint:OnDelete:RESTRICT"`
}

// Invoice and Payment reference each other; the cycle only resolves with
// two-pass generation.
type Invoice struct {
	ID            uint `gorm:"primaryKey"`
	Number        string
	LastPaymentID *uint
	LastPayment   *Payment `bridge:"related_name:closing_for"`
}

// Payment belongs to an invoice.
type Payment struct {
	ID        uint `gorm:"primaryKey"`
	Amount    int64
	InvoiceID uint
	Invoice   Invoice `gorm:"constraint:OnDelete:CASCADE" bridge:"related_name:payments"`
}

// Category is self-referential.
type Category struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	ParentID *uint
	Parent   *Category `bridge:"related_name:children"`
}

// Post carries a many-to-many relation.
type Post struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"size:200"`
	Tags  []Tag  `gorm:"many2many:post_tags"`
}

// Tag is the many-to-many target.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:40"`
}

// AbstractBase is never mirrored.
type AbstractBase struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
}

// AbstractModel marks the model abstract.
func (AbstractBase) AbstractModel() {}

// ProxyTag is a proxy over Tag and never mirrored.
type ProxyTag struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

// ProxyModel marks the model as a proxy.
func (ProxyTag) ProxyModel() {}

// LegacyLedger is unmanaged: its table is owned elsewhere, but it is
// still mirrored.
type LegacyLedger struct {
	ID      uint `gorm:"primaryKey"`
	Balance int64
}

// UnmanagedModel marks the schema as externally owned.
func (LegacyLedger) UnmanagedModel() {}
