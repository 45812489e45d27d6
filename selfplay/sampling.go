package selfplay

// kBeliefSmoothingEps guards the posterior-belief renormalization a sampled
// transition performs, the same floor query.reachSmoothingEps and
// solver.kRegretSmoothingEps use elsewhere.
const kBeliefSmoothingEps = 1e-3
