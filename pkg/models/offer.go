// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

// OfferID uniquely identifies an offer sent by the master.
type OfferID string

// AgentID identifies the agent (slave) an offer was made for.
type AgentID string

// Resource names used in offers and task resource requests.
const (
	CPU  = "cpus"
	Mem  = "mem"
	Disk = "disk"
	GPU  = "gpus"
)

// Resources maps a scalar resource name to its quantity.
type Resources map[string]float64

// Get returns the quantity of the named resource, zero if absent.
func (r Resources) Get(name string) float64 {
	return r[name]
}

// Contains returns true if every quantity in other fits into r.
func (r Resources) Contains(other Resources) bool {
	for name, value := range other {
		if value > r[name] {
			return false
		}
	}
	return true
}

// Offer is a time bounded grant of spare capacity on one agent. Offers are
// snapshots owned by the master and are never mutated once received.
type Offer struct {
	ID        OfferID   `json:"id"`
	AgentID   AgentID   `json:"agent_id"`
	Hostname  string    `json:"hostname"`
	Resources Resources `json:"resources,omitempty"`
}

// GetID returns the offer id.
func (o *Offer) GetID() OfferID {
	if o == nil {
		return ""
	}
	return o.ID
}

// GetAgentID returns the agent id of the offer.
func (o *Offer) GetAgentID() AgentID {
	if o == nil {
		return ""
	}
	return o.AgentID
}

// GetHostname returns the hostname of the offer.
func (o *Offer) GetHostname() string {
	if o == nil {
		return ""
	}
	return o.Hostname
}

// TaskInfo is the launch ready assignment for a single task, produced by a
// placement decision against a specific offer.
type TaskInfo struct {
	TaskID    string            `json:"task_id"`
	Name      string            `json:"name"`
	AgentID   AgentID           `json:"agent_id"`
	Resources Resources         `json:"resources,omitempty"`
	Command   string            `json:"command,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// GetTaskID returns the task id.
func (t *TaskInfo) GetTaskID() string {
	if t == nil {
		return ""
	}
	return t.TaskID
}
