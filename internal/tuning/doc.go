// Package tuning maps plant models to PID gains under classic tuning
// rules.
//
// Four rules are provided:
//
//   - [ZNOpen]: Ziegler-Nichols open-loop reaction-curve method
//   - [CohenCoon]: Cohen-Coon method
//   - [IMC]: internal model control with a closed-loop time constant
//   - [ZNClosed]: Ziegler-Nichols closed-loop (ultimate gain) method
//
// Every rule is a deterministic pure function of the plant model. A rule
// whose formula is undefined for the given plant returns a [DomainError];
// it never fabricates gains.
package tuning
