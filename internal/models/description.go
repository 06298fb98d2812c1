package models

import (
	"fmt"
	"strings"
	"time"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Describe returns the label shown for a workout, e.g. "Running on March 15".
func Describe(kind Kind, t time.Time) string {
	name := string(kind)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s on %s %d", name, monthNames[t.Month()-1], t.Day())
}
