package main

import (
	"github.com/urfave/cli/v2"
)

const envVarPrefix = "FIB_SERVICE"

func PrefixEnvVar(suffix string) []string {
	return []string{envVarPrefix + "_" + suffix}
}

var (
	PortFlag = &cli.IntFlag{
		Name:    "port",
		Usage:   "Port to run the REST service on",
		EnvVars: PrefixEnvVar("PORT"),
		Value:   3030,
	}
	DataDirFlag = &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory for setup artifacts",
		EnvVars: PrefixEnvVar("DATA_DIR"),
		Value:   "data/",
	}
	S3BucketFlag = &cli.StringFlag{
		Name:    "s3-bucket",
		Usage:   "S3 bucket for setup artifacts, takes precedence over data-dir",
		EnvVars: PrefixEnvVar("S3_BUCKET"),
	}
	MaxProvingJobsFlag = &cli.IntFlag{
		Name:    "max-proving-jobs",
		Usage:   "Maximum number of proving jobs to run concurrently",
		EnvVars: PrefixEnvVar("MAX_PROVING_JOBS"),
		Value:   1,
	}
	// The bare IMAGE_ID alias matches what deployment manifests already set.
	ImageIdFlag = &cli.StringFlag{
		Name:    "image-id",
		Usage:   "Expected guest image id as 32-byte hex, defaults to the compiled circuit fingerprint",
		EnvVars: append(PrefixEnvVar("IMAGE_ID"), "IMAGE_ID"),
	}
)

var Flags = []cli.Flag{
	PortFlag,
	DataDirFlag,
	S3BucketFlag,
	MaxProvingJobsFlag,
	ImageIdFlag,
}
