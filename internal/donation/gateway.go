package donation

import (
	"github.com/DukeRupert/kebaikan/internal/simulate"
)

// Outcome is the result of a simulated payment.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Charge describes the payment handed to the gateway.
type Charge struct {
	CampaignID int
	Amount     int64
	Method     string
	Anonymous  bool
}

// Gateway decides the outcome of a payment.
type Gateway interface {
	Pay(c Charge) Outcome
}

// GatewayFunc adapts a function to Gateway.
type GatewayFunc func(c Charge) Outcome

func (f GatewayFunc) Pay(c Charge) Outcome {
	return f(c)
}

// Scripted returns a gateway that yields outcomes in order, then repeats
// the last one.
func Scripted(outcomes ...Outcome) Gateway {
	if len(outcomes) == 0 {
		panic("donation: Scripted needs at least one outcome")
	}
	i := 0
	return GatewayFunc(func(Charge) Outcome {
		o := outcomes[i]
		if i < len(outcomes)-1 {
			i++
		}
		return o
	})
}

// SimulatedGateway fails a fixed share of payments at random.
type SimulatedGateway struct {
	draw     simulate.Draw
	outcomes *simulate.Table[Outcome]
}

// NewSimulatedGateway creates a gateway failing with probability
// failureRate, which must lie in [0, 1].
func NewSimulatedGateway(draw simulate.Draw, failureRate float64) (*SimulatedGateway, error) {
	t, err := simulate.NewTable(
		simulate.Weight[Outcome]{Value: OutcomeFailure, Weight: failureRate},
		simulate.Weight[Outcome]{Value: OutcomeSuccess, Weight: 1 - failureRate},
	)
	if err != nil {
		return nil, err
	}
	return &SimulatedGateway{draw: draw, outcomes: t}, nil
}

func (g *SimulatedGateway) Pay(Charge) Outcome {
	return g.outcomes.Pick(g.draw())
}

// FailureRate returns the configured probability of a failed payment.
func (g *SimulatedGateway) FailureRate() float64 {
	return simulate.Probability(g.outcomes, OutcomeFailure)
}
