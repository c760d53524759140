package models

// Section names one group of extracted fields.
type Section string

const (
	SectionVehicleDetails Section = "vehicleDetails"
	SectionEmiratesID     Section = "emiratesId"
	SectionDrivingLicense Section = "drivingLicense"
)

type VehicleDetails struct {
	PlateCode            string `json:"plateCode"`
	TrafficPlateNo       string `json:"trafficPlateNo"`
	EngineNo             string `json:"engineNo"`
	RegisterDate         string `json:"registerDate"`
	InsuranceExpiry      string `json:"insuranceExpiry"`
	VehicleLicenseExpiry string `json:"vehicleLicenseExpiry"`
	TCNo                 string `json:"tcNo"`
	EmptyWeight          string `json:"emptyWeight"`
	LoadingCapacity      string `json:"loadingCapacity"`
	Make                 string `json:"make"`
	VehicleModel         string `json:"vehicleModel"`
	ModelYear            string `json:"modelYear"`
	NoOfSeats            string `json:"noOfSeats"`
	ChassisNo            string `json:"chassisNo"`
	Origin               string `json:"origin"`
}

type EmiratesID struct {
	EmiratesIDNo string `json:"emiratesIdNo"`
	Nationality  string `json:"nationality"`
	DateOfBirth  string `json:"dateOfBirth"`
	ExpiryDate   string `json:"expiryDate"`
	IssueDate    string `json:"issueDate"`
	Gender       string `json:"gender"`
}

type DrivingLicense struct {
	LicenseNo    string `json:"licenseNo"`
	PlaceOfIssue string `json:"placeOfIssue"`
	IssueDate    string `json:"issueDate"`
	ExpiryDate   string `json:"expiryDate"`
}

// Data is the full set of extracted values shown for review.
type Data struct {
	VehicleDetails VehicleDetails `json:"vehicleDetails"`
	EmiratesID     EmiratesID     `json:"emiratesId"`
	DrivingLicense DrivingLicense `json:"drivingLicense"`
}

// Fields returns addressable fields of section keyed by their JSON name.
// ok is false for an unknown section.
func (d *Data) Fields(section Section) (fields map[string]*string, ok bool) {
	switch section {
	case SectionVehicleDetails:
		v := &d.VehicleDetails
		return map[string]*string{
			"plateCode":            &v.PlateCode,
			"trafficPlateNo":       &v.TrafficPlateNo,
			"engineNo":             &v.EngineNo,
			"registerDate":         &v.RegisterDate,
			"insuranceExpiry":      &v.InsuranceExpiry,
			"vehicleLicenseExpiry": &v.VehicleLicenseExpiry,
			"tcNo":                 &v.TCNo,
			"emptyWeight":          &v.EmptyWeight,
			"loadingCapacity":      &v.LoadingCapacity,
			"make":                 &v.Make,
			"vehicleModel":         &v.VehicleModel,
			"modelYear":            &v.ModelYear,
			"noOfSeats":            &v.NoOfSeats,
			"chassisNo":            &v.ChassisNo,
			"origin":               &v.Origin,
		}, true
	case SectionEmiratesID:
		e := &d.EmiratesID
		return map[string]*string{
			"emiratesIdNo": &e.EmiratesIDNo,
			"nationality":  &e.Nationality,
			"dateOfBirth":  &e.DateOfBirth,
			"expiryDate":   &e.ExpiryDate,
			"issueDate":    &e.IssueDate,
			"gender":       &e.Gender,
		}, true
	case SectionDrivingLicense:
		l := &d.DrivingLicense
		return map[string]*string{
			"licenseNo":    &l.LicenseNo,
			"placeOfIssue": &l.PlaceOfIssue,
			"issueDate":    &l.IssueDate,
			"expiryDate":   &l.ExpiryDate,
		}, true
	}
	return nil, false
}

// SampleData is the record the dashboard opens with.
func SampleData() Data {
	return Data{
		VehicleDetails: VehicleDetails{
			PlateCode:            "DXB",
			TrafficPlateNo:       "A12345",
			EngineNo:             "ENG123456789",
			RegisterDate:         "2020-01-15",
			InsuranceExpiry:      "2025-12-31",
			VehicleLicenseExpiry: "2025-12-31",
			TCNo:                 "TC987654",
			EmptyWeight:          "1500 kg",
			LoadingCapacity:      "500 kg",
			Make:                 "Toyota",
			VehicleModel:         "Camry",
			ModelYear:            "2020",
			NoOfSeats:            "5",
			ChassisNo:            "CH123456789ABCDEF",
			Origin:               "Japan",
		},
		EmiratesID: EmiratesID{
			EmiratesIDNo: "784-1234-5678901-2",
			Nationality:  "United Arab Emirates",
			DateOfBirth:  "1990-05-15",
			ExpiryDate:   "2027-05-14",
			IssueDate:    "2017-05-15",
			Gender:       "Male",
		},
		DrivingLicense: DrivingLicense{
			LicenseNo:    "DL123456789",
			PlaceOfIssue: "Dubai",
			IssueDate:    "2018-03-20",
			ExpiryDate:   "2028-03-19",
		},
	}
}
