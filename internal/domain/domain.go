package domain

import (
	"github.com/brightlines/interference-tracker/internal/domain/incidents"
)

type Incident = incidents.Incident
type Country = incidents.Country
type Actor = incidents.Actor
type Tool = incidents.Tool
type Source = incidents.Source

type IncidentCountry = incidents.IncidentCountry
type IncidentActor = incidents.IncidentActor
type IncidentTool = incidents.IncidentTool
type IncidentSource = incidents.IncidentSource

type IngestRun = incidents.IngestRun
