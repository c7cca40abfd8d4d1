package credential

import (
	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/simulate"
)

// Outcome is the result of a simulated authentication call.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeNetworkError       Outcome = "network_error"
	OutcomeInvalidCredentials Outcome = "invalid_credentials"
	OutcomeEmailExists        Outcome = "email_exists"
	OutcomeServerError        Outcome = "server_error"
)

// Request is what the form hands the backend once validation passes.
// The password itself is never forwarded.
type Request struct {
	Mode           domain.Mode
	Email          string
	Name           string
	PasswordLength int
}

// Backend decides the outcome of an authentication attempt.
type Backend interface {
	Authenticate(req Request) Outcome
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(req Request) Outcome

func (f BackendFunc) Authenticate(req Request) Outcome {
	return f(req)
}

// Scripted returns a backend that yields outcomes in order, then repeats
// the last one.
func Scripted(outcomes ...Outcome) Backend {
	if len(outcomes) == 0 {
		panic("credential: Scripted needs at least one outcome")
	}
	i := 0
	return BackendFunc(func(Request) Outcome {
		o := outcomes[i]
		if i < len(outcomes)-1 {
			i++
		}
		return o
	})
}

var (
	loginOutcomes = simulate.MustTable(
		simulate.Weight[Outcome]{Value: OutcomeNetworkError, Weight: 0.2},
		simulate.Weight[Outcome]{Value: OutcomeInvalidCredentials, Weight: 0.2},
		simulate.Weight[Outcome]{Value: OutcomeServerError, Weight: 0.2},
		simulate.Weight[Outcome]{Value: OutcomeSuccess, Weight: 0.4},
	)
	signupOutcomes = simulate.MustTable(
		simulate.Weight[Outcome]{Value: OutcomeNetworkError, Weight: 0.2},
		simulate.Weight[Outcome]{Value: OutcomeEmailExists, Weight: 0.3},
		simulate.Weight[Outcome]{Value: OutcomeServerError, Weight: 0.1},
		simulate.Weight[Outcome]{Value: OutcomeSuccess, Weight: 0.4},
	)
)

// SimulatedBackend draws outcomes from fixed per-mode distributions.
// Invalid credentials only occur in login mode and email conflicts only in
// signup mode.
type SimulatedBackend struct {
	draw simulate.Draw
}

// NewSimulatedBackend creates a backend fed by draw.
func NewSimulatedBackend(draw simulate.Draw) *SimulatedBackend {
	return &SimulatedBackend{draw: draw}
}

func (b *SimulatedBackend) Authenticate(req Request) Outcome {
	if req.Mode == domain.ModeSignup {
		return signupOutcomes.Pick(b.draw())
	}
	return loginOutcomes.Pick(b.draw())
}
