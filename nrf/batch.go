package nrf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"

	"github.com/q0jt/go-mfghex/ihex"
)

const (
	// MfgHexName is the file the manufacturing data generator writes per device.
	MfgHexName      = "Nordic_MFG.hex"
	extendedHexName = "Nordic_MFG_extended.hex"
	devicePrefix    = "AssetTracker_"
)

// Job is one device instance of a batch.
type Job struct {
	Name   string
	Input  string
	Output string
	Image  string
}

// JobResult is the outcome of a Job. Err is nil on success.
type JobResult struct {
	Job    Job
	Result *Result
	Err    error
}

// JobsFromDirs builds one job per device directory. Each directory holds
// Nordic_MFG.hex; the UF2 image is named after the directory and written
// to imageDir.
func JobsFromDirs(dirs []string, imageDir string) ([]Job, error) {
	jobs := make([]Job, 0, len(dirs))
	for _, dir := range dirs {
		fi, err := os.Stat(dir)
		if err != nil {
			return nil, &IOError{Op: "stat", Path: dir, Err: err}
		}
		if !fi.IsDir() {
			return nil, fmt.Errorf("%s: not a directory", dir)
		}
		name := strings.TrimPrefix(filepath.Base(filepath.Clean(dir)), devicePrefix)
		jobs = append(jobs, Job{
			Name:   name,
			Input:  filepath.Join(dir, MfgHexName),
			Output: filepath.Join(dir, extendedHexName),
			Image:  filepath.Join(imageDir, devicePrefix+name+".uf2"),
		})
	}
	return jobs, nil
}

// RunBatch extends and converts every job with the layout of l. A failed job
// stops the batch unless keepGoing is set; the remaining jobs are then not run.
func RunBatch(ctx context.Context, jobs []Job, l *Layout, conv Converter, keepGoing bool, opts ...ExtendOption) ([]JobResult, error) {
	r, err := l.Range()
	if err != nil {
		return nil, err
	}
	opts = append([]ExtendOption{WithFiller(l.Filler)}, opts...)

	results := make([]JobResult, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := runJob(ctx, job, r, l.FamilyId, conv, opts)
		results = append(results, JobResult{Job: job, Result: res, Err: err})
		if err != nil {
			glog.Errorf("%s: %v", job.Name, err)
			if !keepGoing {
				break
			}
			continue
		}
		glog.Infof("%s: done", job.Name)
	}
	return results, nil
}

func runJob(ctx context.Context, job Job, r ihex.Range, family uint32, conv Converter, opts []ExtendOption) (*Result, error) {
	res, err := Extend(ctx, job.Input, job.Output, r, opts...)
	if err != nil {
		return nil, err
	}
	if conv == nil || job.Image == "" {
		return res, nil
	}
	if err := conv.Convert(ctx, job.Output, job.Image, family); err != nil {
		return res, err
	}
	return res, nil
}
