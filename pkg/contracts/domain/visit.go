package domain

import "fmt"

// Gender labels after translation.
const (
	GenderFemales = "Females"
	GenderMales   = "Males"
	GenderTotal   = "Total"
)

// TotalLabel is the canonical label of aggregate rows in every categorical column.
const TotalLabel = "Total"

// VisitRecord is one normalized row of an emergency-room visit export.
// ConsultationRate is zero until the rate engine has run.
type VisitRecord struct {
	Gender           string  `json:"gender" csv:"Gender"`
	AgeBucket        string  `json:"age_bucket" csv:"Age"`
	Diagnosis        string  `json:"diagnosis" csv:"Diseases"`
	PatientCount     int64   `json:"patient_count" csv:"Patients" validate:"min=0"`
	ConsultationRate float64 `json:"consultation_rate" csv:"Consultation rate(%)"`
}

// AgeRange is an inclusive age bucket request. A nil *AgeRange selects the Total bucket.
type AgeRange struct {
	Low  int `json:"low" validate:"min=0"`
	High int `json:"high" validate:"gtefield=Low"`
}

// String renders the range the way ER exports label their buckets ("15~24").
func (r AgeRange) String() string {
	return fmt.Sprintf("%d~%d", r.Low, r.High)
}
