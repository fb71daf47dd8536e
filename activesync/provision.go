/*
 * Alpha is a Microsoft Exchange ActiveSync client for hosted mailbox services.
 *
 * Copyright (C) 2016, 2017 Kitae Kim <superkkt@gmail.com>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package activesync

import (
	"encoding/xml"
	"fmt"

	"github.com/superkkt/logger"
	"golang.org/x/net/context"
)

type enrollState int

const (
	stateUnprovisioned enrollState = iota
	stateOffered
	stateAcknowledged
	stateFailed
)

func (r enrollState) String() string {
	switch r {
	case stateUnprovisioned:
		return "Unprovisioned"
	case stateOffered:
		return "Offered"
	case stateAcknowledged:
		return "Acknowledged"
	case stateFailed:
		return "Failed"
	default:
		panic(fmt.Sprintf("unexpected enrollment state: %v", int(r)))
	}
}

// Enrollment is the two-round provisioning handshake for one device. It is
// not reusable: a failed enrollment must be restarted from scratch, and a
// partially offered policy key is discarded on failure.
type Enrollment struct {
	transport     *Transport
	authorization string
	user          string
	device        Device
	settings      DeviceSettings
	state         enrollState
	policyKey     string
}

func NewEnrollment(t *Transport, authorization, user string, device Device, settings DeviceSettings) *Enrollment {
	return &Enrollment{
		transport:     t,
		authorization: authorization,
		user:          user,
		device:        device,
		settings:      settings,
		state:         stateUnprovisioned,
	}
}

// PolicyKey returns the final policy key. It is empty unless the enrollment
// reached the Acknowledged state.
func (r *Enrollment) PolicyKey() string {
	if r.state != stateAcknowledged {
		return ""
	}
	return r.policyKey
}

// Run drives the handshake to a terminal state and returns the final policy
// key. The two rounds are strictly sequential: the acknowledge round replays
// the key minted by the offer round.
func (r *Enrollment) Run(ctx context.Context) (string, error) {
	if r.state != stateUnprovisioned {
		return "", fmt.Errorf("enrollment already ran: state=%v", r.state)
	}

	offered, err := r.offer(ctx)
	if err != nil {
		r.fail()
		return "", err
	}
	final, err := r.acknowledge(ctx, offered)
	if err != nil {
		r.fail()
		return "", err
	}
	r.state = stateAcknowledged
	r.policyKey = final
	logger.Info(fmt.Sprintf("Provisioned: DeviceID=%v, PolicyKey=%v", r.device.ID, final))

	return final, nil
}

// offer sends the initial Provision request carrying the device information
// and no policy key. The server requires the identical request to be issued
// twice before the handshake can advance; only the second response's policy
// key is retained. This repetition is mandated server behavior, not error
// recovery, so it must never be collapsed into a single call or modeled as a
// retry.
func (r *Enrollment) offer(ctx context.Context) (string, error) {
	body, err := NewProvisionRequest(r.settings, "", 0)
	if err != nil {
		return "", &ProvisioningError{Round: "offer", Err: err}
	}

	var key string
	for i := 0; i < 2; i++ {
		resp, err := r.transport.Invoke(ctx, Call{
			Command:       CmdProvision,
			Body:          body,
			Authorization: r.authorization,
			User:          r.user,
			Device:        r.device,
			PolicyKey:     "0",
		})
		if err != nil {
			return "", &ProvisioningError{Round: "offer", Err: err}
		}
		key, err = parsePolicyKey(resp)
		if err != nil {
			return "", &ProvisioningError{Round: "offer", Err: err}
		}
		logger.Debug(fmt.Sprintf("Offer round %v: DeviceID=%v, PolicyKey=%v", i+1, r.device.ID, key))
	}
	r.state = stateOffered
	r.policyKey = key

	return key, nil
}

// acknowledge accepts the offered policy and returns the final key that all
// subsequent protected commands must carry.
func (r *Enrollment) acknowledge(ctx context.Context, offered string) (string, error) {
	body, err := NewProvisionRequest(r.settings, offered, 1)
	if err != nil {
		return "", &ProvisioningError{Round: "acknowledge", Err: err}
	}

	resp, err := r.transport.Invoke(ctx, Call{
		Command:       CmdProvision,
		Body:          body,
		Authorization: r.authorization,
		User:          r.user,
		Device:        r.device,
		PolicyKey:     offered,
	})
	if err != nil {
		return "", &ProvisioningError{Round: "acknowledge", Err: err}
	}
	key, err := parsePolicyKey(resp)
	if err != nil {
		return "", &ProvisioningError{Round: "acknowledge", Err: err}
	}
	logger.Debug(fmt.Sprintf("Acknowledge round: DeviceID=%v, PolicyKey=%v", r.device.ID, key))

	return key, nil
}

func (r *Enrollment) fail() {
	r.state = stateFailed
	// Discard a partially offered key. The caller must restart from scratch.
	r.policyKey = ""
}

type provisionReq struct {
	XMLName           xml.Name `xml:"Provision"`
	NS                string   `xml:"xmlns,attr"`
	DeviceInformation *provisionDeviceInformation
	Policies          struct {
		Policy provisionPolicy
	}
}

// provisionDeviceInformation carries the device settings in the Settings
// namespace inside the Provision envelope.
type provisionDeviceInformation struct {
	XMLName xml.Name `xml:"DeviceInformation"`
	NS      string   `xml:"xmlns,attr"`
	Set     deviceInformationSet
}

type provisionPolicy struct {
	PolicyType string
	PolicyKey  string `xml:",omitempty"`
	Status     int    `xml:",omitempty"`
}

// NewProvisionRequest builds the Provision envelope. An empty policyKey
// produces the initial offer form that carries the device information; a
// non-empty one produces the acknowledgement form referencing the offered
// key with the given status (1 means accept).
func NewProvisionRequest(settings DeviceSettings, policyKey string, status int) ([]byte, error) {
	req := provisionReq{NS: "Provision:"}
	req.Policies.Policy = provisionPolicy{
		PolicyType: policyType,
		PolicyKey:  policyKey,
		Status:     status,
	}
	if policyKey == "" {
		// Only the initial offer advertises the device information.
		req.DeviceInformation = &provisionDeviceInformation{
			NS:  "Settings:",
			Set: newDeviceInformationSet(settings),
		}
	}

	return xml.Marshal(req)
}

// parsePolicyKey extracts the policy key from a Provision response. The key
// is opaque: no numeric semantics may be assumed. A response without a
// parsable key is always fatal to the enrollment.
func parsePolicyKey(resp *Response) (string, error) {
	respBody := struct {
		XMLName  xml.Name `xml:"Provision"`
		Status   int
		Policies struct {
			Policy struct {
				PolicyType string
				PolicyKey  string
				Status     int
			}
		}
	}{}
	if err := resp.Parse(&respBody); err != nil {
		return "", err
	}
	if respBody.Policies.Policy.PolicyKey == "" {
		return "", fmt.Errorf("missing PolicyKey element in the Provision response")
	}

	return respBody.Policies.Policy.PolicyKey, nil
}
