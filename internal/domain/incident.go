package domain

import "time"

// IncidentType is the category of a fire-department call.
type IncidentType string

const (
	TypeFire               IncidentType = "Fire"
	TypeRescue             IncidentType = "Rescue"
	TypeInspection         IncidentType = "Inspection"
	TypeAccident           IncidentType = "Accident"
	TypePreHospitalCare    IncidentType = "Pre-hospital Care"
	TypeHazardousMaterials IncidentType = "Hazardous Materials"
	TypeFalseAlarm         IncidentType = "False Alarm"
)

// Status is the lifecycle state of an incident.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
)

// AgeBracket is the age range of the person involved.
type AgeBracket string

const (
	Age18To25 AgeBracket = "18-25"
	Age26To35 AgeBracket = "26-35"
	Age36To50 AgeBracket = "36-50"
	Age51To65 AgeBracket = "51-65"
	Age65Plus AgeBracket = "65+"
)

// Cluster is the discrete risk band derived from a risk score.
type Cluster string

const (
	ClusterLow      Cluster = "Low"
	ClusterModerate Cluster = "Moderate"
	ClusterHigh     Cluster = "High"
	ClusterCritical Cluster = "Critical"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Record is one row of the synthetic incident table.
type Record struct {
	ID           string       `json:"id"`
	City         string       `json:"city"`
	Neighborhood string       `json:"neighborhood"`
	Type         IncidentType `json:"type"`
	Status       Status       `json:"status"`
	AgeBracket   AgeBracket   `json:"age_bracket"`
	Risk         int          `json:"risk"`
	Geo          Geo          `json:"geo"`
	Region       string       `json:"region"`
	Cluster      Cluster      `json:"cluster"`
}

// Dataset is a generated incident table. Records must not be modified after
// generation; filters return new slices.
type Dataset struct {
	Seed        int64     `json:"seed"`
	Records     []Record  `json:"records"`
	GeneratedAt time.Time `json:"generated_at"`
}
