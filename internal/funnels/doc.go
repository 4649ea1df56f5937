// Package funnels implements the funnel generator: for every odd residue at
// the working modulus it measures the minimum number of accelerated steps
// needed to land in the window-residue set. Window residues themselves get
// length zero. A residue that fails to reach the window set within the
// configured depth is a fatal configuration failure — the certificate
// parameters are insufficient and the run aborts rather than emit an
// incomplete certificate.
//
// Artifacts: the funnel table (funnels.csv, ascending residue) and a length
// histogram sidecar (funnels.hist.json).
package funnels
