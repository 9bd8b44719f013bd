package services

import (
	"MediIntake/llm"
	"MediIntake/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FallbackGeneratedBy  = "rule-based-fallback"
	FallbackInstructions = "Take medications as directed. Consult a doctor if symptoms persist or worsen."

	SourceModel    = "model"
	SourceFallback = "fallback"

	DefaultGeneratorTimeout = 20 * time.Second
)

var symptomMedications = map[string]models.Medication{
	"headache":    {Name: "Ibuprofen", Dosage: "200mg", Frequency: "Every 6 hours", Duration: "3 days"},
	"fever":       {Name: "Acetaminophen", Dosage: "500mg", Frequency: "Every 4-6 hours", Duration: "5 days"},
	"cough":       {Name: "Dextromethorphan", Dosage: "10mg", Frequency: "Every 4 hours", Duration: "7 days"},
	"sore throat": {Name: "Throat Lozenges", Dosage: "1 lozenge", Frequency: "Every 2-3 hours", Duration: "5 days"},
	"fatigue":     {Name: "Multivitamin", Dosage: "1 tablet", Frequency: "Once daily", Duration: "30 days"},
	"nausea":      {Name: "Ondansetron", Dosage: "4mg", Frequency: "Every 8 hours", Duration: "3 days"},
}

var restAndHydration = models.Medication{
	Name:      "General Rest and Hydration",
	Dosage:    "As needed",
	Frequency: "Throughout the day",
	Duration:  "Until symptoms improve",
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// PatientVitals is what the generator knows about the patient.
type PatientVitals struct {
	Symptoms   []string
	Age        int
	Weight     float64
	WeightUnit string
	Height     float64
	HeightUnit string
}

type GeneratedPrescription struct {
	Medications  []models.Medication
	Instructions string
	GeneratedBy  string
	Source       string
}

// PrescriptionGenerator asks a text generator for a prescription and falls
// back to the symptom table whenever that fails. Generate never returns an
// error.
type PrescriptionGenerator struct {
	text        llm.TextGenerator
	timeout     time.Duration
	logger      zerolog.Logger
	onGenerated func(source string)
}

// NewPrescriptionGenerator accepts a nil text generator, in which case every
// prescription comes from the fallback table. onGenerated may be nil.
func NewPrescriptionGenerator(text llm.TextGenerator, timeout time.Duration, logger zerolog.Logger, onGenerated func(source string)) *PrescriptionGenerator {
	if timeout <= 0 {
		timeout = DefaultGeneratorTimeout
	}
	return &PrescriptionGenerator{
		text:        text,
		timeout:     timeout,
		logger:      logger,
		onGenerated: onGenerated,
	}
}

func (g *PrescriptionGenerator) Generate(ctx context.Context, vitals PatientVitals) GeneratedPrescription {
	if g.text != nil {
		result, err := g.generateWithModel(ctx, vitals)
		if err == nil {
			g.record(SourceModel)
			return result
		}
		g.logger.Warn().Err(err).Strs("symptoms", vitals.Symptoms).Msg("prescription generation fell back to symptom table")
	}
	g.record(SourceFallback)
	return FallbackPrescription(vitals.Symptoms)
}

func (g *PrescriptionGenerator) record(source string) {
	if g.onGenerated != nil {
		g.onGenerated(source)
	}
}

func (g *PrescriptionGenerator) generateWithModel(ctx context.Context, vitals PatientVitals) (result GeneratedPrescription, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text generator panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.text.Generate(ctx, BuildPrescriptionPrompt(vitals))
	if err != nil {
		return GeneratedPrescription{}, fmt.Errorf("text generation failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return GeneratedPrescription{}, fmt.Errorf("text generation failed: %w", err)
	}

	parsed, err := ParseGeneratedPrescription(text)
	if err != nil {
		return GeneratedPrescription{}, err
	}
	parsed.GeneratedBy = g.text.Name()
	parsed.Source = SourceModel
	return *parsed, nil
}

// FallbackPrescription maps each known symptom, matched case-insensitively,
// to its table entry in input order. Repeated symptoms repeat the entry.
// Symptoms are expected to be trimmed already.
func FallbackPrescription(symptoms []string) GeneratedPrescription {
	medications := make([]models.Medication, 0, len(symptoms))
	for _, symptom := range symptoms {
		if medication, ok := symptomMedications[strings.ToLower(symptom)]; ok {
			medications = append(medications, medication)
		}
	}
	if len(medications) == 0 {
		medications = append(medications, restAndHydration)
	}
	return GeneratedPrescription{
		Medications:  medications,
		Instructions: FallbackInstructions,
		GeneratedBy:  FallbackGeneratedBy,
		Source:       SourceFallback,
	}
}

// BuildPrescriptionPrompt describes the patient and asks for a bare JSON reply.
func BuildPrescriptionPrompt(v PatientVitals) string {
	var b strings.Builder
	b.WriteString("You are a medical AI assistant helping to generate preliminary medication recommendations.\n\n")
	b.WriteString("Patient Information:\n")
	b.WriteString("- Age: " + strconv.Itoa(v.Age) + " years\n")
	b.WriteString("- Weight: " + strconv.FormatFloat(v.Weight, 'f', -1, 64) + " " + v.WeightUnit + "\n")
	b.WriteString("- Height: " + strconv.FormatFloat(v.Height, 'f', -1, 64) + " " + v.HeightUnit + "\n")
	b.WriteString("- Symptoms: " + strings.Join(v.Symptoms, ", ") + "\n\n")
	b.WriteString("Generate a preliminary prescription recommendation with medications and general instructions. ")
	b.WriteString("This is for informational purposes only and will be reviewed by a licensed physician.\n\n")
	b.WriteString("Respond ONLY with a valid JSON object in this exact format (no markdown, no code blocks, just raw JSON):\n")
	b.WriteString(`{
  "medications": [
    {
      "name": "Medication Name",
      "dosage": "dosage amount",
      "frequency": "how often",
      "duration": "how long"
    }
  ],
  "instructions": "General care instructions for the patient"
}`)
	b.WriteString("\n\nImportant:\n")
	b.WriteString("- Recommend only over-the-counter medications or general care\n")
	b.WriteString("- Keep it simple and safe\n")
	b.WriteString("- Include 1-3 medications maximum\n")
	b.WriteString("- Add disclaimer that doctor review is required")
	return b.String()
}

type generatedPayload struct {
	Medications  []models.Medication `json:"medications"`
	Instructions *string             `json:"instructions"`
}

// ParseGeneratedPrescription reads the reply as JSON, or failing that, the
// first fenced JSON block inside it.
func ParseGeneratedPrescription(text string) (*GeneratedPrescription, error) {
	var payload generatedPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil {
		match := fencedJSON.FindStringSubmatch(text)
		if match == nil {
			return nil, errors.New("could not parse prescription from response")
		}
		payload = generatedPayload{}
		if err := json.Unmarshal([]byte(match[1]), &payload); err != nil {
			return nil, fmt.Errorf("could not parse fenced prescription: %w", err)
		}
	}

	if len(payload.Medications) == 0 {
		return nil, errors.New("prescription has no medications")
	}
	for i, medication := range payload.Medications {
		if strings.TrimSpace(medication.Name) == "" {
			return nil, fmt.Errorf("medication %d has no name", i)
		}
	}
	if payload.Instructions == nil {
		return nil, errors.New("prescription has no instructions")
	}

	return &GeneratedPrescription{
		Medications:  payload.Medications,
		Instructions: *payload.Instructions,
	}, nil
}
