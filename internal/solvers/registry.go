package solvers

import (
	"fmt"
	"sort"

	"github.com/pkoval/sdelab/internal/sde"
)

var factories = map[string]func() Stepper{
	"euler":    func() Stepper { return NewEuler() },
	"heun":     func() Stepper { return NewHeun() },
	"midpoint": func() Stepper { return NewMidpoint() },
	"milstein": func() Stepper { return NewMilstein() },
}

// Get returns a fresh stepper by name.
func Get(name string) (Stepper, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", sde.ErrUnknownMethod, name, Names())
	}
	return fn(), nil
}

// Names lists the registered method names in stable order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
