// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pkgconfig

// ResolveJob names one package to resolve and the already-configured
// Client to resolve it with. Per spec.md section 5, a Client is not
// thread-safe and serves exactly one thread; a caller driving several
// lookups concurrently must hand each job a distinct Client rather than
// share one across goroutines.
type ResolveJob struct {
	Client *Client
	Name   string
}

// ResolveResult carries one job's outcome back to the caller, keyed by
// index so results can be matched back to the submitted jobs even
// though they complete out of order.
type ResolveResult struct {
	Index   int
	Package *Package
	Errs    ErrorFlags
}

// ResolveAll runs jobs across a bounded pool of numWorkers goroutines
// and returns one ResolveResult per job, in submission order.
//
// Grounded on the teacher's worker.go workerManager: a fixed pool of
// goroutines pulls from a shared job channel and reports results on a
// shared result channel. This is a considerable simplification of that
// original, since worker.go's pool additionally tracks a dependency
// DAG between jobs (a build graph) — ResolveAll's jobs are independent
// by construction (each names its own Client per spec.md section 5's
// "sharing nothing" rule), so no dependency bookkeeping is needed; the
// pool here exists purely to bound concurrency.
func ResolveAll(jobs []ResolveJob, numWorkers int) []ResolveResult {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}

	type indexedJob struct {
		index int
		job   ResolveJob
	}

	jobChan := make(chan indexedJob)
	resultChan := make(chan ResolveResult)

	for w := 0; w < numWorkers; w++ {
		go func() {
			for ij := range jobChan {
				p, errs := ij.job.Client.Find(ij.job.Name)
				resultChan <- ResolveResult{Index: ij.index, Package: p, Errs: errs}
			}
		}()
	}

	go func() {
		for i, j := range jobs {
			jobChan <- indexedJob{index: i, job: j}
		}
		close(jobChan)
	}()

	results := make([]ResolveResult, len(jobs))
	for range jobs {
		r := <-resultChan
		results[r.Index] = r
	}
	return results
}
