// Package analysis forms the closed loop from a plant and PID gains and
// extracts time- and frequency-domain performance.
//
// [Analyze] runs the whole pipeline:
//
//   - closed-loop transfer function and stability via its poles
//   - step response over a settling horizon derived from pole decay rates
//   - overshoot, 2% settling time, 10-90% rise time, peak
//   - IAE/ISE/ITAE/ITSE error criteria
//   - Bode and Nyquist sweeps plus gain and phase margins of the open loop
//
// An unstable loop yields not-settled (NaN) time-domain metrics together
// with a warning; missing crossovers yield infinite margins. Nothing is
// fabricated.
package analysis
