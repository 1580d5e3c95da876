// Package domain models the synthetic incident data behind the fire-department
// operations dashboard for the state of Pernambuco (PE), Brazil.
//
// # Data Source
//
// There is no real ingestion. Every dashboard request regenerates a table of
// incident records from a fixed seed (see [Generate]), so the same seed and
// record count always produce the same table. Filtered views are new slices;
// the base table is never mutated.
//
// # Field Domains
//
// Incident types:
//
//	Fire, Rescue, Inspection, Accident, Pre-hospital Care,
//	Hazardous Materials, False Alarm
//
// Status: Open, In Progress, Closed.
//
// Age brackets and draw weights:
//
//	18-25 (.20) | 26-35 (.30) | 36-50 (.25) | 51-65 (.15) | 65+ (.10)
//
// Coordinates are drawn inside the PE bounding box:
//
//	lat ∈ [-9.5, -7.5], lon ∈ [-40.5, -34.8]
//
// # Derived Fields
//
// Region comes from a static city→mesoregion table ([RegionTable]); cities
// missing from the table fall into "Other".
//
// Cluster bands the 0–100 risk score with inclusive lower bounds:
//
//	[0,40) Low | [40,65) Moderate | [65,85) High | [85,100] Critical
//
// # Risk Heuristic
//
// [HeuristicPredictor] is a hand-written rule table standing in for a model.
// It sits behind [Predictor] so a trained model can replace it without
// touching the HTTP layer. For False Alarm the returned score is the
// confidence that the report is a hoax, not a severity score.
package domain
