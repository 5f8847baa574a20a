// Package config loads the deck configuration from deck.json or deck.yaml.
//
// # Configuration File Structure
//
//	{
//	  "addr": "localhost:3000",
//	  "tick": "1s",
//	  "log_level": "info",
//	  "logo": "logo.png",
//	  "assets": {
//	    "dir": "img",
//	    "s3": {"bucket": "decks", "region": "eu-west-1", "prefix": "talk/"}
//	  },
//	  "metrics": {"enabled": true, "namespace": "connect"},
//	  "tracing": {"tracer_name": "connect"},
//	  "session": {"max_event_queue": 256}
//	}
//
// The same keys are used in YAML. Unset fields take their defaults; command
// line flags override the file.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
