// Package catalog holds the static, gender-specific clinic service catalog.
// Prices are the authoritative input to the pricing step.
package catalog

import (
	"fmt"

	"github.com/clinicbook/booking-saga/pkg/models"
)

var maleServices = []models.ClinicService{
	{ID: "m1", Name: "General Health Checkup", Price: 500, Description: "Comprehensive health screening including blood tests and vitals"},
	{ID: "m2", Name: "Cardiac Screening", Price: 800, Description: "ECG, stress test, and heart health evaluation"},
	{ID: "m3", Name: "Prostate Examination", Price: 600, Description: "PSA test and prostate health screening"},
	{ID: "m4", Name: "Diabetes Screening", Price: 400, Description: "Fasting glucose, HbA1c, and related tests"},
	{ID: "m5", Name: "Full Body Scan", Price: 1500, Description: "Complete CT scan and MRI imaging"},
	{ID: "m6", Name: "Liver Function Test", Price: 350, Description: "Complete liver panel and hepatitis screening"},
}

var femaleServices = []models.ClinicService{
	{ID: "f1", Name: "General Health Checkup", Price: 500, Description: "Comprehensive health screening including blood tests and vitals"},
	{ID: "f2", Name: "Mammography", Price: 700, Description: "Breast cancer screening and imaging"},
	{ID: "f3", Name: "Gynecological Exam", Price: 650, Description: "Pap smear, pelvic exam, and reproductive health check"},
	{ID: "f4", Name: "Bone Density Scan", Price: 550, Description: "DEXA scan for osteoporosis screening"},
	{ID: "f5", Name: "Thyroid Panel", Price: 450, Description: "Complete thyroid function tests"},
	{ID: "f6", Name: "Full Body Scan", Price: 1500, Description: "Complete CT scan and MRI imaging"},
	{ID: "f7", Name: "Prenatal Checkup", Price: 800, Description: "Complete pregnancy health evaluation"},
}

// ByGender returns the services available for a gender.
func ByGender(gender models.Gender) ([]models.ClinicService, error) {
	switch gender {
	case models.Male:
		return maleServices, nil
	case models.Female:
		return femaleServices, nil
	}
	return nil, fmt.Errorf("invalid gender: %q", gender)
}

// ByIDs resolves service ids against the gender's catalog, failing on the
// first unknown id.
func ByIDs(gender models.Gender, ids []string) ([]models.ClinicService, error) {
	available, err := ByGender(gender)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.ClinicService, len(available))
	for _, svc := range available {
		byID[svc.ID] = svc
	}

	result := make([]models.ClinicService, 0, len(ids))
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("service not found: %s", id)
		}
		result = append(result, svc)
	}
	return result, nil
}

// BasePrice sums the catalog prices of the given services.
func BasePrice(services []models.ClinicService) float64 {
	var total float64
	for _, svc := range services {
		total += svc.Price
	}
	return total
}
