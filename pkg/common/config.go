/**
 * Copyright 2020 The IcecaneDB Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package common

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// KB - Kilobytes
const KB = 1024

// StoreConfig defines the configuration settings for a storage.
type StoreConfig struct {
	// Comparator is the registered name of the comparator ordering the keys.
	Comparator string `yaml:"comparator"`

	// Index is the index backend: skiplist, skipmap, btree or memdb.
	Index string `yaml:"index"`

	SkipListHeight int32 `yaml:"skipListHeight"`
	BTreeDegree    int   `yaml:"btreeDegree"`
	MemDBCapacity  int   `yaml:"memdbCapacity"`
	ScanBatchSize  int   `yaml:"scanBatchSize"`

	// Logging config
	LogLevel string `yaml:"logLevel"`
}

// NewDefaultStoreConfig returns a new default store configuration.
func NewDefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Comparator:     "orderedkv.WordComparator",
		Index:          "skiplist",
		SkipListHeight: 12,
		BTreeDegree:    32,
		MemDBCapacity:  4 * KB,
		ScanBatchSize:  64,
		LogLevel:       "info",
	}
}

// Validate validates a StoreConfig and returns an error if it's invalid.
func (conf *StoreConfig) Validate() error {
	if conf.Comparator == "" {
		return NewInvalidConfigError("invalid comparator provided in config")
	}
	switch conf.Index {
	case "skiplist", "skipmap", "btree", "memdb":
	default:
		return NewInvalidConfigError(fmt.Sprintf("invalid index %q provided in config", conf.Index))
	}
	if conf.SkipListHeight < 0 || conf.BTreeDegree < 0 || conf.MemDBCapacity < 0 || conf.ScanBatchSize < 0 {
		return NewInvalidConfigError("sizes provided in config can't be negative")
	}
	if _, err := log.ParseLevel(conf.LogLevel); err != nil {
		return NewInvalidConfigError(fmt.Sprintf("invalid log level %q provided in config", conf.LogLevel))
	}
	return nil
}

// LoadFromFile loads the config from the file. It assumes that config already has the defaults.
// Only the fields set in the file override the defaults.
// In the case of an error, it leaves the config untouched.
func (conf *StoreConfig) LoadFromFile(path string) error {
	log.Info(fmt.Sprintf("orderedkv::config::LoadFromFile; loading config from file %s", path))
	data, err := ioutil.ReadFile(path)
	if err != nil {
		log.Error(fmt.Sprintf("orderedkv::config::LoadFromFile; error reading config from file %s, error %s", path, err))
		return errors.Wrapf(err, "reading config file %s", path)
	}

	return conf.load(data)
}

func (conf *StoreConfig) load(data []byte) error {
	fconf := StoreConfig{}
	if err := yaml.UnmarshalStrict(data, &fconf); err != nil {
		log.Error(fmt.Sprintf("orderedkv::config::load; error unmarshalling config, error %s", err))
		return errors.Wrap(err, "unmarshalling config")
	}

	log.WithFields(log.Fields{"config": fconf}).Debug("orderedkv::config::load; read contents from the file")

	// populate fields
	if fconf.Comparator != "" {
		conf.Comparator = fconf.Comparator
	}
	if fconf.Index != "" {
		conf.Index = fconf.Index
	}
	if fconf.SkipListHeight != 0 {
		conf.SkipListHeight = fconf.SkipListHeight
	}
	if fconf.BTreeDegree != 0 {
		conf.BTreeDegree = fconf.BTreeDegree
	}
	if fconf.MemDBCapacity != 0 {
		conf.MemDBCapacity = fconf.MemDBCapacity
	}
	if fconf.ScanBatchSize != 0 {
		conf.ScanBatchSize = fconf.ScanBatchSize
	}
	if fconf.LogLevel != "" {
		conf.LogLevel = fconf.LogLevel
	}
	return nil
}

// ConfigureLogging sets the logrus level from the config.
func (conf *StoreConfig) ConfigureLogging() error {
	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "parsing log level %q", conf.LogLevel)
	}
	log.SetLevel(level)
	return nil
}
