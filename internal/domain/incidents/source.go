package incidents

// Source is a cited reference URL, shared across incidents. Domain is the
// registrable host extracted at ingest time.
type Source struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	URL    string `gorm:"column:url;not null;uniqueIndex" json:"url"`
	Domain string `gorm:"column:domain;index" json:"domain,omitempty"`
}

func (Source) TableName() string { return "source" }
