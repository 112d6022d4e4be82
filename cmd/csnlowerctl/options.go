package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/csnlower/csnlower/optsx"
)

// fileOptions mirrors the documented external option names (spec.md §6)
// for loading from a YAML option file. Every field is optional; absent
// fields keep optsx's own defaults.
type fileOptions struct {
	Version     *string `yaml:"version"`
	ODataFormat *string `yaml:"odataFormat"`

	ODataContainment     *bool `yaml:"odataContainment"`
	ODataForeignKeys     *bool `yaml:"odataForeignKeys"`
	ODataProxies         *bool `yaml:"odataProxies"`
	ODataXServiceRefs    *bool `yaml:"odataXServiceRefs"`
	ODataV2PartialConstr *bool `yaml:"odataV2PartialConstr"`

	SQLMapping *string `yaml:"names"`
	Dialect    *string `yaml:"dialect"`
	Src        *string `yaml:"src"`

	SQLChangeMode       *string `yaml:"sqlChangeMode"`
	DefaultStringLength *int    `yaml:"defaultStringLength"`

	TestMode *bool `yaml:"testMode"`

	Partial    *bool `yaml:"partial"`
	Beta       *bool `yaml:"beta"`
	Deprecated *bool `yaml:"deprecated"`
}

// loadOptions reads an optional YAML option file and turns it into the
// optsx.Option list optsx.New expects. An empty path is not an error —
// the caller just gets the documented defaults.
func loadOptions(path string) ([]optsx.Option, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("csnlowerctl: reading option file: %w", err)
	}
	var fo fileOptions
	if err := yaml.Unmarshal(raw, &fo); err != nil {
		return nil, fmt.Errorf("csnlowerctl: parsing option file: %w", err)
	}
	return fo.toOptions(), nil
}

func (fo fileOptions) toOptions() []optsx.Option {
	var opts []optsx.Option
	if fo.Version != nil {
		opts = append(opts, optsx.WithVersion(optsx.ProtocolVersion(*fo.Version)))
	}
	if fo.ODataFormat != nil {
		opts = append(opts, optsx.WithODataFormat(optsx.ODataFormat(*fo.ODataFormat)))
	}
	if fo.ODataContainment != nil {
		opts = append(opts, optsx.WithODataContainment(*fo.ODataContainment))
	}
	if fo.ODataForeignKeys != nil {
		opts = append(opts, optsx.WithODataForeignKeys(*fo.ODataForeignKeys))
	}
	if fo.ODataProxies != nil {
		opts = append(opts, optsx.WithODataProxies(*fo.ODataProxies))
	}
	if fo.ODataXServiceRefs != nil {
		opts = append(opts, optsx.WithODataXServiceRefs(*fo.ODataXServiceRefs))
	}
	if fo.ODataV2PartialConstr != nil {
		opts = append(opts, optsx.WithODataV2PartialConstr(*fo.ODataV2PartialConstr))
	}
	if fo.SQLMapping != nil {
		opts = append(opts, optsx.WithSQLMapping(optsx.NamingMode(*fo.SQLMapping)))
	}
	if fo.Dialect != nil {
		opts = append(opts, optsx.WithDialect(optsx.Dialect(*fo.Dialect)))
	}
	if fo.Src != nil {
		opts = append(opts, optsx.WithSrc(optsx.Src(*fo.Src)))
	}
	if fo.SQLChangeMode != nil {
		opts = append(opts, optsx.WithSQLChangeMode(optsx.ChangeMode(*fo.SQLChangeMode)))
	}
	if fo.DefaultStringLength != nil {
		opts = append(opts, optsx.WithDefaultStringLength(*fo.DefaultStringLength))
	}
	if fo.TestMode != nil {
		opts = append(opts, optsx.WithTestMode(*fo.TestMode))
	}
	if fo.Partial != nil {
		opts = append(opts, optsx.WithPartial(*fo.Partial))
	}
	if fo.Beta != nil {
		opts = append(opts, optsx.WithBeta(*fo.Beta))
	}
	if fo.Deprecated != nil {
		opts = append(opts, optsx.WithDeprecated(*fo.Deprecated))
	}
	return opts
}
