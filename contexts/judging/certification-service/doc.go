// Package certificationservice implements category certification for
// pageant judging: winner aggregation, the certification ledger, the
// sign-off workflow and the three-party quorum for score removal.
//
// Domain and application code depend only on ports; storage, transport and
// event publishing are attached through adapter composition in module.go.
package certificationservice
