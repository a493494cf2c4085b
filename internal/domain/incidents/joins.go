package incidents

// Join rows are owned by the incident side: deleting an incident cascades
// its links but leaves the shared vocabulary rows intact.

type IncidentCountry struct {
	IncidentID uint      `gorm:"column:incident_id;primaryKey" json:"incident_id"`
	Incident   *Incident `gorm:"constraint:OnDelete:CASCADE;foreignKey:IncidentID;references:ID" json:"-"`
	CountryID  uint      `gorm:"column:country_id;primaryKey" json:"country_id"`
	Country    *Country  `gorm:"foreignKey:CountryID;references:ID" json:"-"`
}

func (IncidentCountry) TableName() string { return "incident_country" }

type IncidentActor struct {
	IncidentID uint      `gorm:"column:incident_id;primaryKey" json:"incident_id"`
	Incident   *Incident `gorm:"constraint:OnDelete:CASCADE;foreignKey:IncidentID;references:ID" json:"-"`
	ActorID    uint      `gorm:"column:actor_id;primaryKey" json:"actor_id"`
	Actor      *Actor    `gorm:"foreignKey:ActorID;references:ID" json:"-"`

	Role       *string `gorm:"column:role" json:"role,omitempty"`
	Confidence *string `gorm:"column:confidence" json:"confidence,omitempty"`
}

func (IncidentActor) TableName() string { return "incident_actor" }

type IncidentTool struct {
	IncidentID uint      `gorm:"column:incident_id;primaryKey" json:"incident_id"`
	Incident   *Incident `gorm:"constraint:OnDelete:CASCADE;foreignKey:IncidentID;references:ID" json:"-"`
	ToolID     uint      `gorm:"column:tool_id;primaryKey" json:"tool_id"`
	Tool       *Tool     `gorm:"foreignKey:ToolID;references:ID" json:"-"`
}

func (IncidentTool) TableName() string { return "incident_tool" }

type IncidentSource struct {
	IncidentID uint      `gorm:"column:incident_id;primaryKey" json:"incident_id"`
	Incident   *Incident `gorm:"constraint:OnDelete:CASCADE;foreignKey:IncidentID;references:ID" json:"-"`
	SourceID   uint      `gorm:"column:source_id;primaryKey" json:"source_id"`
	Source     *Source   `gorm:"foreignKey:SourceID;references:ID" json:"-"`

	// SlotNo preserves the ordinal of the CMS source field (1..5).
	SlotNo int `gorm:"column:slot_no;not null;default:0" json:"slot_no"`
}

func (IncidentSource) TableName() string { return "incident_source" }
