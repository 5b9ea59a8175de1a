/*
Package config provides type-safe extraction of registry settings from
YAML or JSON documents.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
handlestore.OptionsFromConfig turns a Config into registry options.

# Basic Usage

	cfg, err := config.FromFile("registry.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	opts, err := handlestore.OptionsFromConfig(cfg)
	if err != nil {
	    log.Fatal(err)
	}
	reg := handlestore.New[Style, uint32](opts...)

A registry file looks like:

	name: styles
	index_policy: purge   # or retain
	metrics: true
	size_hint: 256

Several registries can share one file under separate keys; use Sub to
select one:

	styles:
	  name: styles
	fonts:
	  name: fonts
	  index_policy: retain

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
