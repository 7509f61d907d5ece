package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// errAbort unwinds a case after FailNow, the way testing.T does with Goexit
var errAbort = fmt.Errorf("case aborted")

// reporter lets the harness procedures run outside go test. It satisfies
// require.TestingT and counts failed cases.
type reporter struct {
	log      *logrus.Entry
	failed   bool
	passed   int
	failures []string
}

func newReporter(log *logrus.Entry) *reporter {
	return &reporter{log: log}
}

func (r *reporter) Errorf(format string, args ...interface{}) {
	r.failed = true
	r.log.Errorf(format, args...)
}

func (r *reporter) FailNow() {
	r.failed = true
	panic(errAbort)
}

// run executes one case, turning FailNow and returned errors into a
// recorded failure.
func (r *reporter) run(name string, fn func() error) {
	r.failed = false
	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec != errAbort {
					panic(rec)
				}
				err = errAbort
			}
		}()
		return fn()
	}()

	log := r.log.WithField("case", name)
	switch {
	case err != nil && err != errAbort:
		r.failed = true
		log.WithError(err).Error("FAIL")
	case r.failed:
		log.Error("FAIL")
	default:
		log.Info("PASS")
	}
	if r.failed {
		r.failures = append(r.failures, name)
	} else {
		r.passed++
	}
}

// err summarizes the run
func (r *reporter) err() error {
	if len(r.failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d cases failed: %v",
		len(r.failures), len(r.failures)+r.passed, r.failures)
}
