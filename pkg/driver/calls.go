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

package driver

import (
	"bytes"
	"fmt"

	"github.com/uber/offerqueue/pkg/models"

	"github.com/gogo/protobuf/jsonpb"
	"github.com/gogo/protobuf/proto"
	mesos "github.com/mesos/mesos-go/api/v1/lib"
	"github.com/pkg/errors"
)

const (
	// ContentTypeProtobuf encodes calls and events as protobuf.
	ContentTypeProtobuf = "x-protobuf"
	// ContentTypeJSON encodes calls and events as JSON.
	ContentTypeJSON = "json"
)

func mediaType(contentType string) string {
	return fmt.Sprintf("application/%s", contentType)
}

// marshal encodes a call or an event in the given content type.
func marshal(msg proto.Message, contentType string) ([]byte, error) {
	switch contentType {
	case ContentTypeJSON:
		marshaler := jsonpb.Marshaler{
			EnumsAsInts: false,
			OrigName:    true,
		}
		var buf bytes.Buffer
		if err := marshaler.Marshal(&buf, msg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ContentTypeProtobuf:
		return proto.Marshal(msg)
	}
	return nil, errors.Errorf("unsupported content type %q", contentType)
}

// unmarshal decodes data of the given content type into msg.
func unmarshal(data []byte, msg proto.Message, contentType string) error {
	switch contentType {
	case ContentTypeJSON:
		return jsonpb.Unmarshal(bytes.NewReader(data), msg)
	case ContentTypeProtobuf:
		return proto.Unmarshal(data, msg)
	}
	return errors.Errorf("unsupported content type %q", contentType)
}

// offerToModel converts a Mesos offer, summing up its scalar resources.
func offerToModel(offer *mesos.Offer) models.Offer {
	result := models.Offer{
		ID:        models.OfferID(offer.GetID().Value),
		AgentID:   models.AgentID(offer.GetAgentID().Value),
		Hostname:  offer.GetHostname(),
		Resources: models.Resources{},
	}
	for _, r := range offer.GetResources() {
		if r.GetType() != mesos.SCALAR || r.GetScalar() == nil {
			continue
		}
		result.Resources[r.GetName()] += r.GetScalar().GetValue()
	}
	return result
}

// newTaskInfo builds the Mesos task of a placement decision.
func newTaskInfo(task *models.TaskInfo) mesos.TaskInfo {
	info := mesos.TaskInfo{
		Name:    task.Name,
		TaskID:  mesos.TaskID{Value: task.TaskID},
		AgentID: mesos.AgentID{Value: string(task.AgentID)},
	}
	for name, quantity := range task.Resources {
		info.Resources = append(info.Resources, mesos.Resource{
			Name:   name,
			Type:   mesos.SCALAR.Enum(),
			Scalar: &mesos.Value_Scalar{Value: quantity},
		})
	}
	if task.Command != "" {
		info.Command = &mesos.CommandInfo{
			Shell: proto.Bool(true),
			Value: proto.String(task.Command),
		}
	}
	if len(task.Labels) > 0 {
		info.Labels = &mesos.Labels{}
		for k, v := range task.Labels {
			info.Labels.Labels = append(info.Labels.Labels, mesos.Label{
				Key:   k,
				Value: proto.String(v),
			})
		}
	}
	return info
}
