package pricing

import (
	"errors"

	"visacenter_backend/internal/models"
)

// Сборы в тугриках (MNT). Сумма из callback QPay сверяется
// именно с этим расчетом.
var baseFees = map[models.VisaType]int64{
	models.VisaTypeTourist:  160000,
	models.VisaTypeStudent:  185000,
	models.VisaTypeWork:     190000,
	models.VisaTypeFamily:   160000,
	models.VisaTypeBusiness: 205000,
}

// UrgentSurcharge - надбавка за срочное рассмотрение
const UrgentSurcharge int64 = 60000

var ErrUnknownVisaType = errors.New("unknown visa type")

// Fee возвращает ожидаемую сумму счета по анкете
func Fee(visaType models.VisaType, urgent bool) (int64, error) {
	base, ok := baseFees[visaType]
	if !ok {
		return 0, ErrUnknownVisaType
	}
	if urgent {
		return base + UrgentSurcharge, nil
	}
	return base, nil
}
