package engine

import (
	"math/rand"
	"sort"

	"github.com/go-logr/logr"

	"github.com/piwi3910/BoxStack/internal/model"
)

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() model.GeneticSettings {
	return model.DefaultSettings().Genetic
}

// chromosome is a candidate processing order: a permutation of indices into
// the expanded parts slice.
type chromosome struct {
	genes   []int
	fitness fitness
}

// fitness ranks decoded orders by placed volume, then placed count.
type fitness struct {
	volume float64
	count  int
}

func (f fitness) better(o fitness) bool {
	if f.volume != o.volume {
		return f.volume > o.volume
	}
	return f.count > o.count
}

// geneticOptimizer searches part orderings. Every chromosome is decoded
// with the same first-fit scan the greedy algorithm uses.
type geneticOptimizer struct {
	packer    *Packer
	settings  model.PackSettings
	config    model.GeneticSettings
	parts     []model.Part
	container model.Container
	rng       *rand.Rand
}

func newGeneticOptimizer(p *Packer, settings model.PackSettings, parts []model.Part, container model.Container) *geneticOptimizer {
	config := normalizeGeneticConfig(settings.Genetic)
	return &geneticOptimizer{
		packer:    p,
		settings:  settings,
		config:    config,
		parts:     parts,
		container: container,
		rng:       rand.New(rand.NewSource(config.Seed)),
	}
}

// normalizeGeneticConfig replaces unusable values with defaults. At least
// one elite always survives so the greedy seed is never lost.
func normalizeGeneticConfig(c model.GeneticSettings) model.GeneticSettings {
	def := DefaultGeneticConfig()
	if c.PopulationSize < 2 {
		c.PopulationSize = def.PopulationSize
	}
	if c.Generations < 0 {
		c.Generations = def.Generations
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		c.MutationRate = def.MutationRate
	}
	if c.TournamentSize < 1 {
		c.TournamentSize = def.TournamentSize
	}
	if c.EliteCount < 1 {
		c.EliteCount = 1
	}
	if c.EliteCount > c.PopulationSize {
		c.EliteCount = c.PopulationSize
	}
	return c
}

// packGenetic runs the genetic search and decodes the best order found.
func (p *Packer) packGenetic(settings model.PackSettings, parts []model.Part, container model.Container) []model.Placement {
	ga := newGeneticOptimizer(p, settings, parts, container)
	best := ga.optimize()
	p.logger.V(2).Info("Genetic search finished",
		"generations", ga.config.Generations,
		"population", ga.config.PopulationSize,
		"placedVolume", best.fitness.volume,
		"placed", best.fitness.count,
	)
	return p.packFirstFit(settings, ga.ordered(best), container, p.logger)
}

// optimize runs the evolution loop and returns the fittest chromosome.
func (g *geneticOptimizer) optimize() chromosome {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		for i := 0; i < g.config.EliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sortByFitness(population)
	return population[0]
}

// sortByFitness orders best first. Ties keep population order so runs
// stay reproducible.
func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness.better(population[j].fitness)
	})
}

// initPopulation creates random permutations plus the volume-descending
// order in slot zero.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.parts)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{genes: g.rng.Perm(n)}
	}
	population[0] = g.createGreedyChromosome()
	return population
}

// createGreedyChromosome mirrors the order the first-fit algorithm uses.
func (g *geneticOptimizer) createGreedyChromosome() chromosome {
	indices := make([]int, len(g.parts))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return g.parts[indices[i]].Volume() > g.parts[indices[j]].Volume()
	})
	return chromosome{genes: indices}
}

func (g *geneticOptimizer) ordered(c chromosome) []model.Part {
	order := make([]model.Part, len(c.genes))
	for i, idx := range c.genes {
		order[i] = g.parts[idx]
	}
	return order
}

// evaluate decodes a chromosome without per-part logging.
func (g *geneticOptimizer) evaluate(c chromosome) fitness {
	placements := g.packer.packFirstFit(g.settings, g.ordered(c), g.container, logr.Discard())
	var f fitness
	for _, pl := range placements {
		if pl.Placed() {
			f.volume += pl.Part.Volume()
			f.count++
		}
	}
	return f
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness.better(best.fitness) {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}

	inSegment := make([]bool, n)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion is less frequent
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
