package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ruancomelli/psin/internal/scene"
)

// ResistanceRule combines two material constants in series. A zero on
// either side means that side does not contribute.
func ResistanceRule(a, b float64) float64 {
	switch {
	case b == 0:
		return a
	case a == 0:
		return b
	}
	return a * b / (a + b)
}

// AnalyticalRestitution is the coefficient of restitution of a linear
// spring-dashpot contact, with the dashpot force limited so it never pulls
// the bodies together.
func AnalyticalRestitution(mass, elasticModulus, dissipativeConstant float64) (float64, error) {
	if mass <= 0 || elasticModulus <= 0 || dissipativeConstant < 0 {
		return 0, fmt.Errorf("%w: mass %g, elastic modulus %g, dissipative constant %g",
			ErrInvalidParameter, mass, elasticModulus, dissipativeConstant)
	}

	omegaStar := math.Sqrt(elasticModulus / mass)
	beta := 0.5 * dissipativeConstant / mass

	switch {
	case beta < omegaStar/math.Sqrt2:
		omega := math.Sqrt(omegaStar*omegaStar - beta*beta)
		return math.Exp(-beta / omega * (math.Pi - math.Atan2(2*beta*omega, omega*omega-beta*beta))), nil
	case beta < omegaStar:
		omega := math.Sqrt(omegaStar*omegaStar - beta*beta)
		return math.Exp(-beta / omega * math.Atan2(2*beta*omega, omega*omega-beta*beta)), nil
	case beta == omegaStar:
		// Critical damping, where omega vanishes; take the overdamped limit.
		return math.Exp(-2), nil
	}
	bigOmega := math.Sqrt(beta*beta - omegaStar*omegaStar)
	return math.Exp(-beta / bigOmega * math.Log((beta+bigOmega)/(beta-bigOmega))), nil
}

// Contact holds the effective parameters of a particle hitting a wall.
type Contact struct {
	Mass                float64
	ElasticModulus      float64
	DissipativeConstant float64
}

// Property names read by NewContact.
const (
	MassProperty                = "Mass"
	ElasticModulusProperty      = "ElasticModulus"
	DissipativeConstantProperty = "NormalDissipativeConstant"
	KineticEnergyProperty       = "kineticEnergy"
	VelocityProperty            = "Velocity"
	GravityProperty             = "Gravity"
)

// NewContact combines the particle's and the wall's material constants as
// recorded at idx. The wall's constants come from the wall itself.
func NewContact(p *scene.Particle, wall *scene.Boundary, idx int) (Contact, error) {
	mass, err := p.Scalar(MassProperty, idx)
	if err != nil {
		return Contact{}, err
	}
	pk, err := p.Scalar(ElasticModulusProperty, idx)
	if err != nil {
		return Contact{}, err
	}
	wk, err := wall.Scalar(ElasticModulusProperty, idx)
	if err != nil {
		return Contact{}, err
	}
	pg, err := p.Scalar(DissipativeConstantProperty, idx)
	if err != nil {
		return Contact{}, err
	}
	wg, err := wall.Scalar(DissipativeConstantProperty, idx)
	if err != nil {
		return Contact{}, err
	}
	return Contact{
		Mass:                mass,
		ElasticModulus:      ResistanceRule(pk, wk),
		DissipativeConstant: ResistanceRule(pg, wg),
	}, nil
}

func (c Contact) Restitution() (float64, error) {
	return AnalyticalRestitution(c.Mass, c.ElasticModulus, c.DissipativeConstant)
}

// CollisionSample is the restitution measured for one collision, held over
// the instants the contact lasted.
type CollisionSample struct {
	scene.Collision
	Restitution float64
	Times       []float64
}

// MeasuredRestitution evaluates -(v_out + |g|dt)/v_in for each record. The
// |g|dt term removes the velocity gained from gravity during the step the
// rebound was recorded in.
func MeasuredRestitution(records []scene.Collision, gravity r3.Vec, timestep float64) ([]CollisionSample, error) {
	if timestep <= 0 {
		return nil, fmt.Errorf("%w: timestep %g", ErrInvalidParameter, timestep)
	}

	g := r3.Norm(gravity)
	out := make([]CollisionSample, 0, len(records))
	for i, rec := range records {
		vin, vout := rec.Velocities[0], rec.Velocities[1]
		if vin == 0 {
			return nil, fmt.Errorf("%w: collision %d has zero incoming velocity", ErrInvalidParameter, i)
		}
		first, last := rec.TimeIndices[0], rec.TimeIndices[1]
		if last < first {
			return nil, fmt.Errorf("%w: collision %d ends at %d before it starts at %d", ErrInvalidParameter, i, last, first)
		}

		times := make([]float64, 0, last-first+1)
		for idx := first; idx <= last; idx++ {
			times = append(times, float64(idx)*timestep)
		}
		out = append(out, CollisionSample{
			Collision:   rec,
			Restitution: -(vout + g*timestep) / vin,
			Times:       times,
		})
	}
	return out, nil
}
