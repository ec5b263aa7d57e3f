package wizard

import (
	"fmt"
	"strings"
	"time"
)

// Step - один раздел многошаговой анкеты (аналог секции DS-160).
type Step struct {
	Name     string
	Index    int
	Required bool
	// Fields - обязательные поля секции и их проверки
	Fields []Field
}

type Field struct {
	Name     string
	Required bool
	// Check - дополнительная проверка значения, nil если достаточно наличия
	Check func(value interface{}) string
}

// Порядок шагов фиксирован; family и work_education опциональны и не
// блокируют продвижение CurrentStep.
var steps = []Step{
	{
		Name:     StepPersonal,
		Index:    0,
		Required: true,
		Fields: []Field{
			{Name: "first_name", Required: true},
			{Name: "last_name", Required: true},
			{Name: "birth_date", Required: true, Check: checkDate},
			{Name: "citizenship", Required: true},
			{Name: "passport_number", Required: true, Check: checkPassport},
			{Name: "passport_expiry", Required: true, Check: checkDate},
			{Name: "phone", Required: false},
		},
	},
	{
		Name:     StepFamily,
		Index:    1,
		Required: false,
		Fields: []Field{
			{Name: "marital_status", Required: true},
			{Name: "spouse_name", Required: false},
			{Name: "children", Required: false},
		},
	},
	{
		Name:     StepWorkEducation,
		Index:    2,
		Required: false,
		Fields: []Field{
			{Name: "occupation", Required: true},
			{Name: "employer", Required: false},
			{Name: "education_level", Required: false},
		},
	},
	{
		Name:     StepTravel,
		Index:    3,
		Required: true,
		Fields: []Field{
			{Name: "purpose", Required: true},
			{Name: "arrival_date", Required: true, Check: checkDate},
			{Name: "departure_date", Required: true, Check: checkDate},
			{Name: "destination", Required: true},
		},
	},
	{
		Name:     StepDocuments,
		Index:    4,
		Required: true,
		Fields: []Field{
			{Name: "passport_scan_url", Required: true},
			{Name: "photo_url", Required: true},
			{Name: "bank_statement_url", Required: false},
		},
	},
}

const (
	StepPersonal      = "personal"
	StepFamily        = "family"
	StepWorkEducation = "work_education"
	StepTravel        = "travel"
	StepDocuments     = "documents"
)

// Steps возвращает шаги в порядке прохождения
func Steps() []Step {
	return steps
}

// StepByName ищет шаг по имени секции
func StepByName(name string) (Step, bool) {
	for _, s := range steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}

// ValidateSection проверяет payload секции против правил шага.
// Возвращает карту "поле" -> "сообщение"; пустая карта - секция валидна.
func ValidateSection(step Step, payload map[string]interface{}) map[string]string {
	errs := make(map[string]string)

	for _, f := range step.Fields {
		raw, ok := payload[f.Name]
		if !ok || isEmpty(raw) {
			if f.Required {
				errs[f.Name] = "This field is required"
			}
			continue
		}
		if f.Check != nil {
			if msg := f.Check(raw); msg != "" {
				errs[f.Name] = msg
			}
		}
	}

	// Неизвестные поля отбрасывать нельзя молча: форма и бэкенд должны
	// сходиться по схеме секции.
	known := make(map[string]bool, len(step.Fields))
	for _, f := range step.Fields {
		known[f.Name] = true
	}
	for name := range payload {
		if !known[name] {
			errs[name] = "Unknown field for this step"
		}
	}

	return errs
}

// SectionComplete - секция сохранена и проходит валидацию шага
func SectionComplete(step Step, sections map[string]interface{}) bool {
	raw, ok := sections[step.Name]
	if !ok {
		return false
	}
	payload, ok := raw.(map[string]interface{})
	if !ok {
		return false
	}
	return len(ValidateSection(step, payload)) == 0
}

// FirstIncompleteStep возвращает индекс первого обязательного шага без
// валидной секции. Опциональные шаги не блокируют продвижение.
// Если все обязательные шаги заполнены, возвращает len(steps).
func FirstIncompleteStep(sections map[string]interface{}) int {
	for _, s := range steps {
		if !s.Required {
			continue
		}
		if !SectionComplete(s, sections) {
			return s.Index
		}
	}
	return len(steps)
}

// MissingRequired возвращает имена обязательных шагов без валидной секции
func MissingRequired(sections map[string]interface{}) []string {
	var missing []string
	for _, s := range steps {
		if s.Required && !SectionComplete(s, sections) {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

// --- Проверки полей ---

func isEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}

func checkDate(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return "Must be a date string (YYYY-MM-DD)"
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "Must be a date in YYYY-MM-DD format"
	}
	return ""
}

func checkPassport(v interface{}) string {
	s, ok := v.(string)
	if !ok || len(s) < 6 || len(s) > 12 {
		return fmt.Sprintf("Must be %d-%d characters", 6, 12)
	}
	return ""
}
