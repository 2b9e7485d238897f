package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefijos de los códigos correlativos.
const (
	OrderNumberPrefix  = "V"
	ShipmentCodePrefix = "ENV"
	RouteCodePrefix    = "RUT"
)

// Anchos del contador de cada código.
const (
	OrderNumberWidth  = 5
	ShipmentCodeWidth = 4
	RouteCodeWidth    = 3
)

// MonthlyBase devuelve prefix+YYYYMM (numeración de ventas, se reinicia cada mes).
func MonthlyBase(prefix string, t time.Time) string {
	return prefix + t.Format("200601")
}

// DailyBase devuelve prefix+YYYYMMDD (envíos y rutas, se reinicia cada día).
func DailyBase(prefix string, t time.Time) string {
	return prefix + t.Format("20060102")
}

// NextCode calcula el siguiente código a partir del mayor código existente con la misma base.
// last vacío (o con sufijo no numérico) reinicia el contador en 1.
func NextCode(base, last string, width int) string {
	n := 1
	if strings.HasPrefix(last, base) {
		if v, err := strconv.Atoi(last[len(base):]); err == nil {
			n = v + 1
		}
	}
	return fmt.Sprintf("%s%0*d", base, width, n)
}
