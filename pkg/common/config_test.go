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
	"io/ioutil"
	"path"
	"testing"

	"github.com/dr0pdb/orderedkv/test"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestDefaultStoreConfigIsValid(t *testing.T) {
	conf := NewDefaultStoreConfig()
	assert.Nil(t, conf.Validate(), "default config should be valid")
}

func TestStoreConfigValidate(t *testing.T) {
	invalid := []func(conf *StoreConfig){
		func(conf *StoreConfig) { conf.Comparator = "" },
		func(conf *StoreConfig) { conf.Index = "hashmap" },
		func(conf *StoreConfig) { conf.ScanBatchSize = -1 },
		func(conf *StoreConfig) { conf.LogLevel = "loud" },
	}

	for i, mutate := range invalid {
		conf := NewDefaultStoreConfig()
		mutate(conf)
		assert.IsType(t, InvalidConfigError{}, conf.Validate(), "expected config %d to be invalid", i)
	}
}

func TestStoreConfigLoadFromFile(t *testing.T) {
	test.CreateTestDirectory(test.TestDirectory)
	defer test.CleanupTestDirectory(test.TestDirectory)

	p := path.Join(test.TestDirectory, "store.yaml")
	data := []byte("comparator: orderedkv.BytewiseComparator\nindex: btree\nbtreeDegree: 8\n")
	assert.Nil(t, ioutil.WriteFile(p, data, 0644))

	conf := NewDefaultStoreConfig()
	assert.Nil(t, conf.LoadFromFile(p))

	assert.Equal(t, "orderedkv.BytewiseComparator", conf.Comparator)
	assert.Equal(t, "btree", conf.Index)
	assert.Equal(t, 8, conf.BTreeDegree)

	// untouched fields keep the defaults
	defaults := NewDefaultStoreConfig()
	assert.Equal(t, defaults.SkipListHeight, conf.SkipListHeight)
	assert.Equal(t, defaults.ScanBatchSize, conf.ScanBatchSize)
	assert.Equal(t, defaults.LogLevel, conf.LogLevel)
}

func TestStoreConfigLoadErrors(t *testing.T) {
	conf := NewDefaultStoreConfig()
	assert.NotNil(t, conf.LoadFromFile(path.Join(test.TestDirectory, "missing.yaml")))
	assert.Equal(t, NewDefaultStoreConfig(), conf, "config should be untouched on error")

	assert.NotNil(t, conf.load([]byte("index: [skiplist")))
	assert.NotNil(t, conf.load([]byte("unknownField: 1")), "unknown fields should be rejected")
	assert.Equal(t, NewDefaultStoreConfig(), conf, "config should be untouched on error")
}

func TestConfigureLogging(t *testing.T) {
	level := log.GetLevel()
	defer log.SetLevel(level)

	conf := NewDefaultStoreConfig()
	conf.LogLevel = "warn"
	assert.Nil(t, conf.ConfigureLogging())
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	conf.LogLevel = "loud"
	assert.NotNil(t, conf.ConfigureLogging())
}
