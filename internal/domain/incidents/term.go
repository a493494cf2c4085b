package incidents

// Actor and Tool are taxonomy terms carried over from the CMS export, keyed
// by the externally supplied term id.

type Actor struct {
	ID     uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	TermID int64 `gorm:"column:term_id;not null;uniqueIndex" json:"term_id"`

	Name        string `gorm:"column:name;not null;index" json:"name"`
	Slug        string `gorm:"column:slug" json:"slug,omitempty"`
	Taxonomy    string `gorm:"column:taxonomy" json:"taxonomy,omitempty"`
	Description string `gorm:"column:description" json:"description,omitempty"`
}

func (Actor) TableName() string { return "actor" }

type Tool struct {
	ID     uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	TermID int64 `gorm:"column:term_id;not null;uniqueIndex" json:"term_id"`

	Name        string `gorm:"column:name;not null;index" json:"name"`
	Slug        string `gorm:"column:slug" json:"slug,omitempty"`
	Taxonomy    string `gorm:"column:taxonomy" json:"taxonomy,omitempty"`
	Description string `gorm:"column:description" json:"description,omitempty"`
}

func (Tool) TableName() string { return "tool" }
