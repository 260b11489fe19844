// Package config provides configuration loading for Vitrio applications.
//
// Configuration is read from vitrio.json or vitrio.yaml at the project root
// and then overridden by environment variables. A missing file is not an
// error; the defaults apply.
//
// # Configuration File Structure
//
//	{
//	  "name": "counter",
//	  "port": 8787,
//	  "origin": "https://counter.example.com",
//	  "basePath": "/app",
//	  "env": "production",
//	  "assets": {
//	    "bucket": "counter-assets",
//	    "region": "us-east-1",
//	    "manifest": "manifest.json"
//	  },
//	  "dev": {
//	    "watch": ["public"],
//	    "pollInterval": "500ms"
//	  }
//	}
//
// The same structure in vitrio.yaml uses the same keys.
//
// # Environment
//
//	PORT                   port
//	ORIGIN                 origin
//	BASE_PATH              basePath
//	NODE_ENV               env ("production" enables production mode)
//	VITRIO_CSRF_SECRET     csrfSecret
//	VITRIO_ASSETS_DIR      assets.dir
//	VITRIO_ASSETS_BUCKET   assets.bucket
//	VITRIO_ASSETS_REGION   assets.region
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.LookupEnv)
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
