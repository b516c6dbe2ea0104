// Package config provides configuration parsing for vmini.
//
// The configuration lives in vmini.json (or vmini.toml) at the project
// root. This package handles loading, saving, defaulting and validating it.
//
// # Configuration File Structure
//
//	{
//	  "log": {"level": "info", "format": "text"},
//	  "scheduler": {"maxFlushPasses": 100},
//	  "renderer": {"warnMissingKeys": true},
//	  "metrics": {"namespace": "vmini"},
//	  "devtools": {"enabled": true, "addr": "localhost:7070"},
//	  "bench": {"size": 200, "iterations": 50, "seed": 1}
//	}
//
// The same keys are accepted in TOML:
//
//	[devtools]
//	enabled = true
//	addr = "localhost:7070"
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Devtools:", cfg.Devtools.Addr)
package config
