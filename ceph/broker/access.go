// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package broker

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

var groupPermissions = set.NewStrings("r", "rw", "rwx")

// GroupAccess grants a cephx key access to every pool in a group.
type GroupAccess struct {
	// KeyName is the cephx client the grant applies to; the requesting
	// application's name when built through Request.
	KeyName   string  `json:"name"`
	Group     string  `json:"group"`
	Namespace *string `json:"namespace"`

	// Permission is the capability on the group's pools, eg "rwx".
	Permission *string `json:"group-permission"`

	// ObjectPrefixPermissions maps a permission to object name prefixes
	// it applies to, eg {"class-read": ["rbd_children"]}.
	ObjectPrefixPermissions map[string][]string `json:"object-prefix-permissions"`
}

// Kind implements Op.
func (a GroupAccess) Kind() string { return OpAddPermissionsToKey }

// Validate implements Op.
func (a GroupAccess) Validate() error {
	if err := checkName("group", a.Group); err != nil {
		return err
	}
	if err := checkName("key", a.KeyName); err != nil {
		return errors.Annotatef(err, "group %q", a.Group)
	}
	return checkOneOf("group permission", a.Permission, groupPermissions)
}

// MarshalJSON implements Op.
func (a GroupAccess) MarshalJSON() ([]byte, error) {
	type wire GroupAccess
	return marshalOp(OpAddPermissionsToKey, wire(a))
}

// KeyPermissions replaces the capabilities of a cephx client.
type KeyPermissions struct {
	Client      string   `json:"client"`
	Permissions []string `json:"permissions"`
}

// Kind implements Op.
func (k KeyPermissions) Kind() string { return OpSetKeyPermissions }

// Validate implements Op.
func (k KeyPermissions) Validate() error {
	if err := checkName("client", k.Client); err != nil {
		return err
	}
	if len(k.Permissions) == 0 {
		return errors.NotValidf("no permissions for client %q", k.Client)
	}
	return nil
}

// MarshalJSON implements Op.
func (k KeyPermissions) MarshalJSON() ([]byte, error) {
	type wire KeyPermissions
	return marshalOp(OpSetKeyPermissions, wire(k))
}
