package services

import (
	"clinic-booking-backend/models"
	"clinic-booking-backend/utils"
)

// DirectoryService holds the clinic's static reference data: specialties,
// doctors per specialty and the bookable time slots. Everything is fixed at
// startup and read-only, so lookups need no locking.
type DirectoryService struct {
	specialties []string
	doctors     map[string][]models.Doctor
	timeSlots   []string
}

func NewDirectoryService() *DirectoryService {
	return &DirectoryService{
		specialties: []string{
			"Cardiology", "Neurology", "Pulmonology", "Gastroenterology",
			"Nephrology", "Endocrinology", "Oncology", "Hematology",
			"Dermatology", "Psychiatry",
		},
		doctors: map[string][]models.Doctor{
			"Cardiology": {
				{Name: "Dr. Somasekar", Email: "somasekar@example.com"},
				{Name: "Dr. Poovarasan", Email: "poovarasan@example.com"},
			},
			"Neurology": {
				{Name: "Dr. Anjali Sharma", Email: "anjali.sharma@example.com"},
				{Name: "Dr. Vikram Patel", Email: "vikram.patel@example.com"},
			},
			"Pulmonology": {
				{Name: "Dr. Priya Menon", Email: "priya.menon@example.com"},
				{Name: "Dr. Sanjay Gupta", Email: "sanjay.gupta@example.com"},
			},
			"Gastroenterology": {
				{Name: "Dr. Rajesh Nair", Email: "rajesh.nair@example.com"},
				{Name: "Dr. Meena Iyer", Email: "meena.iyer@example.com"},
			},
			"Nephrology": {
				{Name: "Dr. Arjun Reddy", Email: "arjun.reddy@example.com"},
				{Name: "Dr. Lakshmi Rao", Email: "lakshmi.rao@example.com"},
			},
			"Endocrinology": {
				{Name: "Dr. Kavita Desai", Email: "kavita.desai@example.com"},
				{Name: "Dr. Mohan Kumar", Email: "mohan.kumar@example.com"},
			},
			"Oncology": {
				{Name: "Dr. Siddharth Bose", Email: "siddharth.bose@example.com"},
				{Name: "Dr. Nisha Verma", Email: "nisha.verma@example.com"},
			},
			"Hematology": {
				{Name: "Dr. Anil Kapoor", Email: "anil.kapoor@example.com"},
				{Name: "Dr. Sunita Pillai", Email: "sunita.pillai@example.com"},
			},
			"Dermatology": {
				{Name: "Dr. Riya Sen", Email: "riya.sen@example.com"},
				{Name: "Dr. Amitabh Das", Email: "amitabh.das@example.com"},
			},
			"Psychiatry": {
				{Name: "Dr. Shalini Mehta", Email: "shalini.mehta@example.com"},
				{Name: "Dr. Rohan Joshi", Email: "rohan.joshi@example.com"},
			},
		},
		timeSlots: []string{"10:00 AM", "1:00 PM", "2:00 PM", "3:00 PM"},
	}
}

// Specialties returns the canonical specialty names in display order.
func (ds *DirectoryService) Specialties() []string {
	return ds.specialties
}

// Doctors returns the doctors for a canonical specialty name.
func (ds *DirectoryService) Doctors(specialty string) []models.Doctor {
	return ds.doctors[specialty]
}

// TimeSlots returns the bookable time slots in display order.
func (ds *DirectoryService) TimeSlots() []string {
	return ds.timeSlots
}

// MatchSpecialty resolves user input to a canonical specialty name,
// ignoring case and whitespace noise.
func (ds *DirectoryService) MatchSpecialty(input string) (string, bool) {
	normalized := utils.NormalizeText(input)
	for _, s := range ds.specialties {
		if utils.NormalizeText(s) == normalized {
			return s, true
		}
	}
	return "", false
}

// FindDoctor resolves a doctor by name within a canonical specialty.
func (ds *DirectoryService) FindDoctor(specialty, name string) (*models.Doctor, bool) {
	normalized := utils.NormalizeText(name)
	for _, d := range ds.doctors[specialty] {
		if utils.NormalizeText(d.Name) == normalized {
			doctor := d
			return &doctor, true
		}
	}
	return nil, false
}

// MatchTimeSlot resolves a possibly noisy time-slot string ("2:00pm",
// "2:00   PM") to its canonical form.
func (ds *DirectoryService) MatchTimeSlot(input string) (string, bool) {
	normalized := utils.NormalizeTimeSlot(input)
	for _, slot := range ds.timeSlots {
		if utils.NormalizeTimeSlot(slot) == normalized {
			return slot, true
		}
	}
	return "", false
}
