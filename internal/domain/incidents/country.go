package incidents

// Country is a shared vocabulary entity keyed by name. Lat/Lon hold the
// centroid used by the map view; DatasetCountHint mirrors the export's own
// per-country incident count and is informational only.
type Country struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;not null;uniqueIndex" json:"name"`

	Lat              *float64 `gorm:"column:lat" json:"lat,omitempty"`
	Lon              *float64 `gorm:"column:lon" json:"lon,omitempty"`
	DatasetCountHint *int     `gorm:"column:dataset_count_hint" json:"dataset_count_hint,omitempty"`
}

func (Country) TableName() string { return "country" }
