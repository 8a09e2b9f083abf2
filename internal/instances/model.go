package instances

import "time"

// Instance is a provisioned customer namespace. Name doubles as the DNS
// subdomain label and is the primary key; once claimed it is never released.
type Instance struct {
	Name       string    `json:"name"`
	Locale     string    `json:"locale"`
	OwnerEmail string    `json:"ownerEmail"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DefaultLocale is applied when creation omits a locale.
const DefaultLocale = "en-US"

// Reason classifies why a name is unavailable.
type Reason string

const (
	ReasonInvalid  Reason = "invalid"
	ReasonReserved Reason = "reserved"
	ReasonTaken    Reason = "taken"
)

// Availability is the result of a name check. Reason is nil exactly when
// Available is true.
type Availability struct {
	Name      string  `json:"name"`
	Available bool    `json:"available"`
	Reason    *Reason `json:"reason"`
}

func available(name string) Availability {
	return Availability{Name: name, Available: true}
}

func unavailable(name string, reason Reason) Availability {
	return Availability{Name: name, Available: false, Reason: &reason}
}
