// meta/meta.go
package meta

// EPISODES defines the number of episodes in an experiment run.
const EPISODES = 100

// WORKERS defines the number of episodes played concurrently.
const WORKERS = 8

// MAX_MOVES caps the moves of one episode; a board holds 42 checkers.
const MAX_MOVES = 42

// SEED defines the base seed episodes derive their random sources from.
const SEED = 1

const OUTPUT_DIR = "experiments/runs"

const LOG_LEVEL = "info"

// ENV_PREFIX prefixes every environment override, e.g. CONNECT4_EPISODES.
const ENV_PREFIX = "CONNECT4_"
