package batch

import (
	"fmt"
	"runtime"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
)

// MaxPointsPerJob is the hard cap on NumPoints for any single request.
// Unlike the batch-size cap, this has no configuration option: it bounds
// a single job's own cost, not the shape of a caller's workload.
const MaxPointsPerJob = 1000

// NBodyFactory builds an N-body propagator for a specific perturbing
// planet set. Constructing a fresh propagator per distinct planet set
// (rather than one shared instance) keeps each job's System immutable and
// avoids any cross-job aliasing of tolerance settings.
type NBodyFactory func(planets []constants.Planet) trajectory.Propagator

// Driver resolves a list of batch requests against a shared catalog,
// dispatching two-body and N-body jobs to independently sized worker
// pools and memoizing results keyed by CacheKey. Grounded on the
// worker-pool-with-queues shape of a compute job manager, simplified from
// three priority tiers to two method-keyed pools, since heliotrace has no
// pricing concept.
type Driver struct {
	catalog      trajectory.ElementsLookup
	twoBody      trajectory.Propagator
	nbodyFactory NBodyFactory
	cache        *lru.Cache[CacheKey, trajectory.Result]
	maxBatchSize int
}

// New returns a Driver backed by catalog for designation lookups, using
// twoBody for all two-body jobs and nbodyFactory to build an N-body
// propagator per distinct planet set, caching up to cacheCapacity
// distinct TrajectoryResults and rejecting any Run call over
// maxBatchSize requests (batch.max_size in configuration).
func New(catalog trajectory.ElementsLookup, twoBody trajectory.Propagator, nbodyFactory NBodyFactory, cacheCapacity, maxBatchSize int) (*Driver, error) {
	if maxBatchSize <= 0 {
		return nil, trajectory.ErrInvalidRequest.Wrapf("max batch size must be positive, got %d", maxBatchSize)
	}
	cache, err := lru.New[CacheKey, trajectory.Result](cacheCapacity)
	if err != nil {
		return nil, err
	}
	return &Driver{catalog: catalog, twoBody: twoBody, nbodyFactory: nbodyFactory, cache: cache, maxBatchSize: maxBatchSize}, nil
}

type job struct {
	id  uuid.UUID
	req Request
}

// Run resolves requests in parallel, returning a Result whose three maps
// partition the input by outcome. A failure processing one request is
// captured into Errors and never aborts the rest of the batch.
func (d *Driver) Run(requests []Request) (Result, error) {
	if len(requests) > d.maxBatchSize {
		return Result{}, trajectory.ErrInvalidRequest.Wrapf(
			"batch of %d requests exceeds the %d-request limit", len(requests), d.maxBatchSize)
	}
	for _, r := range requests {
		if r.NumPoints > MaxPointsPerJob {
			return Result{}, trajectory.ErrInvalidRequest.Wrapf(
				"request for %q asks for %d points, exceeding the %d-point limit", r.Designation, r.NumPoints, MaxPointsPerJob)
		}
	}

	result := newResult()
	var mu sync.Mutex

	var twoBodyJobs, nbodyJobs []job
	for _, r := range requests {
		j := job{id: uuid.New(), req: r}
		if r.Method == trajectory.NBody {
			nbodyJobs = append(nbodyJobs, j)
		} else {
			twoBodyJobs = append(twoBodyJobs, j)
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.runPool(twoBodyJobs, d.processTwoBody, &result, &mu)
	}()
	go func() {
		defer wg.Done()
		d.runPool(nbodyJobs, d.processNBody, &result, &mu)
	}()
	wg.Wait()

	return result, nil
}

type jobProcessor func(job, trajectory.Elements) (trajectory.Result, error)

// runPool sizes a worker pool to min(NumCPU, len(jobs)) and drains jobs
// through process, writing each outcome into result under mu.
func (d *Driver) runPool(jobs []job, process jobProcessor, result *Result, mu *sync.Mutex) {
	if len(jobs) == 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan job, len(jobs))
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range queue {
				d.processOne(j, process, result, mu)
			}
		}()
	}
	wg.Wait()
}

func (d *Driver) processOne(j job, process jobProcessor, result *Result, mu *sync.Mutex) {
	defer func() {
		if r := recover(); r != nil {
			mu.Lock()
			result.Errors[j.req.Designation] = fmt.Sprintf("job panicked: %v", r)
			mu.Unlock()
		}
	}()

	elements, err := d.catalog.Find(j.req.Designation)
	if err != nil {
		mu.Lock()
		defer mu.Unlock()
		if trajectory.ErrNotFound.Is(err) {
			result.NotFound[j.req.Designation] = true
		} else {
			result.Errors[j.req.Designation] = err.Error()
		}
		return
	}
	key := j.req.cacheKey()
	if cached, ok := d.cache.Get(key); ok {
		mu.Lock()
		result.Results[j.req.Designation] = cached
		mu.Unlock()
		return
	}

	r, err := process(j, elements)
	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		result.Errors[j.req.Designation] = err.Error()
		return
	}
	r = trajectory.WithDesignation(r, j.req.Designation)
	d.cache.Add(key, r)
	result.Results[j.req.Designation] = r
}

func (d *Driver) processTwoBody(j job, elements trajectory.Elements) (trajectory.Result, error) {
	return d.twoBody.PropagateElements(elements, j.req.StartTime, j.req.Days, j.req.NumPoints)
}

func (d *Driver) processNBody(j job, elements trajectory.Elements) (trajectory.Result, error) {
	planets := j.req.Planets
	if len(planets) == 0 {
		planets = constants.DefaultPlanets
	}
	propagator := d.nbodyFactory(planets)
	return propagator.PropagateElements(elements, j.req.StartTime, j.req.Days, j.req.NumPoints)
}
