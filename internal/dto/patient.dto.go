package dto

import (
	"time"

	"github.com/BruksfildServices01/clinic-records/internal/age"
	"github.com/BruksfildServices01/clinic-records/internal/models"
)

// PatientResponse is a patient row plus the derived age. Age is computed
// from date_of_birth at read time and never persisted.
type PatientResponse struct {
	models.Patient
	Age *int `json:"age"`
}

func FromPatient(p models.Patient, today time.Time) PatientResponse {
	resp := PatientResponse{Patient: p}
	if p.DateOfBirth != nil {
		resp.Age = age.FromDOB(*p.DateOfBirth, today)
	}
	return resp
}

func FromPatients(patients []models.Patient, today time.Time) []PatientResponse {
	out := make([]PatientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, FromPatient(p, today))
	}
	return out
}
