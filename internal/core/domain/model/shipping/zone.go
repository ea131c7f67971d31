package shipping

import (
	"errors"
	"strings"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrZoneIsNotConstructed is returned when a Zone was not created through
// the NewZone factory function.
var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone constructor")

// Zone is a named set of countries a shipping method may deliver to.
type Zone struct {
	id           kernel.UUID
	name         string
	countryCodes map[string]struct{}

	isConstructed bool
}

// NewZone creates a zone covering the given ISO 3166-1 alpha-2 countries.
// At least one country is required.
func NewZone(id kernel.UUID, name string, countryCodes []string) (Zone, error) {
	if err := id.Validate(); err != nil {
		return Zone{}, err
	}
	if name == "" {
		return Zone{}, errs.NewValueIsRequiredError("zone name")
	}
	if len(countryCodes) == 0 {
		return Zone{}, errs.NewValueIsRequiredError("zone countries")
	}

	codes := make(map[string]struct{}, len(countryCodes))
	for _, code := range countryCodes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) != 2 {
			return Zone{}, errs.NewValueIsInvalidError("country code")
		}
		codes[code] = struct{}{}
	}

	return Zone{
		id:            id,
		name:          name,
		countryCodes:  codes,
		isConstructed: true,
	}, nil
}

// Validate ensures the zone was created through NewZone.
func (z Zone) Validate() error {
	if !z.isConstructed {
		return ErrZoneIsNotConstructed
	}
	return nil
}

// ID returns the zone identifier.
func (z Zone) ID() kernel.UUID { return z.id }

// Name returns the zone name.
func (z Zone) Name() string { return z.name }

// CountryCodes returns the covered countries in no particular order.
func (z Zone) CountryCodes() []string {
	codes := make([]string, 0, len(z.countryCodes))
	for code := range z.countryCodes {
		codes = append(codes, code)
	}
	return codes
}

// Includes reports whether the address falls inside the zone. Resolution is
// by country code.
func (z Zone) Includes(addr kernel.Address) bool {
	_, ok := z.countryCodes[strings.ToUpper(addr.CountryCode())]
	return ok
}
