package deploy

import (
	"crypto/sha256"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

// InstanceCondition returns the condition owned by the instance deployed by
// deployer from given template with given salt.
func InstanceCondition(templateID, salt []byte, deployer weave.Address) weave.Condition {
	h := sha256.New()
	_, _ = h.Write(templateID)
	_, _ = h.Write(deployer)
	_, _ = h.Write(salt)
	return weave.NewCondition("deploy", "instance", h.Sum(nil))
}

// InstanceAddress returns the address at which the instance is deployed.
func InstanceAddress(templateID, salt []byte, deployer weave.Address) weave.Address {
	return InstanceCondition(templateID, salt, deployer).Address()
}

// Install stores the code and returns its template id. Installing the same
// code again is a no-op.
func Install(db weave.KVStore, code []byte) ([]byte, error) {
	t := &Template{Code: code}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	id := TemplateID(code)
	b := NewTemplateBucket()
	if ok, err := b.Has(db, id); err != nil {
		return nil, err
	} else if ok {
		return id, nil
	}
	if err := b.Save(db, orm.NewSimpleObj(id, t)); err != nil {
		return nil, errors.Wrap(err, "cannot save template")
	}
	return id, nil
}

// Deploy creates a new instance of an installed template and returns its
// address.
func Deploy(ctx weave.Context, db weave.KVStore, deployer weave.Address, templateID, salt []byte) (weave.Address, error) {
	if ok, err := NewTemplateBucket().Has(db, templateID); err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "template %X", templateID)
	}

	height, _ := weave.GetHeight(ctx)
	inst := &Instance{
		Template: templateID,
		Deployer: deployer,
		Salt:     salt,
		Height:   height,
	}
	if err := inst.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid instance")
	}

	addr := InstanceAddress(templateID, salt, deployer)
	b := NewInstanceBucket()
	if ok, err := b.Has(db, addr); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(ErrCollision, "address %s", addr)
	}
	if err := b.Save(db, orm.NewSimpleObj(addr, inst)); err != nil {
		return nil, errors.Wrap(err, "cannot save instance")
	}
	weave.GetLogger(ctx).Debug("instance deployed", "address", addr, "deployer", deployer)
	return addr, nil
}
