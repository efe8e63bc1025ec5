package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// The classifiers below are pure functions over free text. Matching is
// substring containment on normalized text, not whole-word matching: short
// keywords like "cold" or "pain" deliberately over-match ("I have a cold" is
// medical, and so is any sentence containing "cold"). That tolerance is part
// of the contract; do not narrow it to word boundaries without flagging the
// behavior change to clients.

var appointmentKeywords = []string{
	"book appointment", "schedule appointment", "make appointment",
	"book a visit", "schedule a visit", "arrange appointment",
	"need to see a doctor", "want to see a doctor", "book with doctor",
	"schedule with doctor", "appointment with doctor", "see a specialist",
	"visit a doctor", "consult a doctor", "meet a doctor",
}

var greetingKeywords = []string{
	"hello", "hi", "hey", "greetings", "good morning", "good afternoon",
	"good evening", "howdy", "yo", "hola",
}

var medicalKeywords = []string{
	"symptom", "disease", "condition", "treatment", "medication", "diagnosis",
	"pain", "fever", "infection", "injury", "surgery", "therapy", "health",
	"illness", "doctor", "hospital", "medicine", "prescription", "allergy",
	"chronic", "acute", "virus", "bacteria", "cancer", "diabetes", "heart",
	"blood", "pressure", "stroke", "asthma", "arthritis", "mental", "depression",
	"anxiety", "vaccine", "immune", "flu", "cold", "cough", "headache", "migraine",
	"nausea", "fatigue", "rash", "swelling", "inflammation", "bleeding", "bruise",
	"fracture", "sprain", "strain", "tumor", "ulcer", "seizure", "dizziness",
	"shortness", "breath", "chest", "abdomen", "kidney", "liver", "lung",
	"thyroid", "hormone", "insulin", "cholesterol", "allergic", "reaction",
	"antibiotics", "antiviral", "painkiller", "syringe", "injection", "scan",
	"xray", "mri", "ultrasound", "biopsy", "chemotherapy", "radiation", "dialysis",
	"transplant", "immune", "system", "autoimmune", "rheumatoid", "psoriasis",
	"eczema", "hypertension", "hypotension", "anemia", "leukemia", "lymphoma",
	"epilepsy", "parkinson", "alzheimer", "concussion", "obesity", "malnutrition",
	"vitamin", "deficiency", "legs pain", "hand pain", "back pain", "knee pain",
	"eyes related problem", "eye pain", "vision loss", "blurred vision", "glaucoma",
	"cataract", "conjunctivitis", "dry eyes", "retina", "cornea", "neck pain",
	"shoulder pain", "elbow pain", "wrist pain", "hip pain", "ankle pain",
	"foot pain", "joint pain", "muscle pain", "numbness", "tingling", "cramp",
	"spasm", "stiffness", "sciatica", "tendonitis", "bursitis", "gout",
	"osteoporosis", "scoliosis", "hernia", "disc slip", "sinus", "sinusitis",
	"sore throat", "tonsillitis", "laryngitis", "bronchitis", "pneumonia",
	"tuberculosis", "emphysema", "copd", "gastritis", "acid reflux", "gerd",
	"constipation", "diarrhea", "ibs", "crohn", "colitis", "appendicitis",
	"gallstone", "pancreatitis", "hepatitis", "cirrhosis", "bladder", "uti",
	"kidney stone", "prostate", "incontinence", "menopause", "pms", "endometriosis",
	"fibroid", "infertility", "erectile", "dysfunction", "std", "hiv", "herpes",
	"hpv", "syphilis", "gonorrhea", "chlamydia", "acne", "rosacea", "dandruff",
	"alopecia", "hives", "warts", "mole", "melanoma", "basal cell", "squamous",
	"psoriatic", "lupus", "scleroderma", "vitiligo", "insomnia", "sleep apnea",
	"narcolepsy", "restless legs", "phobia", "ocd", "ptsd", "bipolar", "schizophrenia",
	"addiction", "detox", "rehab", "anorexia", "bulimia", "binge eating", "vertigo",
	"tinnitus", "hearing loss", "ear infection", "meningitis", "encephalitis",
	"hydrocephalus", "aneurysm", "hemorrhage", "clot", "angina", "arrhythmia",
	"cardiomyopathy", "stent", "bypass", "pacemaker", "endoscopy", "colonoscopy",
	"mammogram", "pap smear", "prostate exam", "blood test", "urine test",
	"stool test", "ecg", "eeg", "ct scan", "pet scan", "ventilator", "oxygen therapy",
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	emailShape    = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// NormalizeText trims, collapses internal whitespace runs to a single space
// and lowercases. Empty input stays empty.
func NormalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToLower(whitespaceRun.ReplaceAllString(s, " "))
}

// NormalizeTimeSlot reduces a time-slot string to its canonical comparison
// form: only digits, ':' and the AM/PM letters survive, whitespace is dropped
// and letters are uppercased. "2:00   PM", "2:00PM" and "2:00 pm" all
// normalize to "2:00PM".
func NormalizeTimeSlot(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == ':':
			b.WriteRune(r)
		default:
			switch unicode.ToUpper(r) {
			case 'A', 'M', 'P':
				b.WriteRune(unicode.ToUpper(r))
			}
		}
	}
	return b.String()
}

// IsValidEmail checks the permissive nonwhitespace@nonwhitespace.nonwhitespace
// shape. It is intentionally not an RFC 5322 validator.
func IsValidEmail(s string) bool {
	return emailShape.MatchString(s)
}

// IsGreeting reports whether the message reads as a greeting.
func IsGreeting(message string) bool {
	return containsAny(NormalizeText(message), greetingKeywords)
}

// IsAppointmentRelated reports whether the message asks to book an appointment.
func IsAppointmentRelated(message string) bool {
	return containsAny(NormalizeText(message), appointmentKeywords)
}

// IsMedicalRelated reports whether the message mentions a medical topic.
func IsMedicalRelated(message string) bool {
	return containsAny(NormalizeText(message), medicalKeywords)
}

func containsAny(normalized string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}
