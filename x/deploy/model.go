package deploy

import (
	"crypto/sha256"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

const (
	maxCodeSize = 4096
	maxSaltSize = 64
)

// Template is installed contract code.
type Template struct {
	Code []byte `protobuf:"bytes,1,opt,name=code,proto3" json:"code,omitempty"`
}

var _ orm.CloneableData = (*Template)(nil)

func (t *Template) Reset()         { *t = Template{} }
func (t *Template) String() string { return proto.CompactTextString(t) }
func (*Template) ProtoMessage()    {}

func (t *Template) Validate() error {
	if len(t.Code) == 0 {
		return errors.Wrap(errors.ErrEmpty, "code")
	}
	if len(t.Code) > maxCodeSize {
		return errors.Wrapf(errors.ErrInvalidInput, "code longer than %d", maxCodeSize)
	}
	return nil
}

func (t *Template) Copy() orm.CloneableData {
	return &Template{Code: append([]byte(nil), t.Code...)}
}

// TemplateID returns the identifier of given code.
func TemplateID(code []byte) []byte {
	h := sha256.Sum256(code)
	return h[:]
}

// Instance records a deployed contract.
type Instance struct {
	Template []byte        `protobuf:"bytes,1,opt,name=template,proto3" json:"template,omitempty"`
	Deployer weave.Address `protobuf:"bytes,2,opt,name=deployer,proto3" json:"deployer,omitempty"`
	Salt     []byte        `protobuf:"bytes,3,opt,name=salt,proto3" json:"salt,omitempty"`
	Height   int64         `protobuf:"varint,4,opt,name=height,proto3" json:"height,omitempty"`
}

var _ orm.CloneableData = (*Instance)(nil)

func (i *Instance) Reset()         { *i = Instance{} }
func (i *Instance) String() string { return proto.CompactTextString(i) }
func (*Instance) ProtoMessage()    {}

func (i *Instance) Validate() error {
	if len(i.Template) != sha256.Size {
		return errors.Wrap(errors.ErrInvalidInput, "template id")
	}
	if err := i.Deployer.Validate(); err != nil {
		return errors.Wrap(err, "deployer")
	}
	if len(i.Salt) == 0 || len(i.Salt) > maxSaltSize {
		return errors.Wrapf(errors.ErrInvalidInput, "salt must be 1 to %d bytes", maxSaltSize)
	}
	return nil
}

func (i *Instance) Copy() orm.CloneableData {
	return &Instance{
		Template: append([]byte(nil), i.Template...),
		Deployer: i.Deployer.Clone(),
		Salt:     append([]byte(nil), i.Salt...),
		Height:   i.Height,
	}
}

// TemplateBucket stores installed code under its template id.
type TemplateBucket struct {
	orm.Bucket
}

// NewTemplateBucket returns a bucket for managing templates.
func NewTemplateBucket() TemplateBucket {
	return TemplateBucket{
		Bucket: orm.NewBucket("template", orm.NewSimpleObj(nil, &Template{})),
	}
}

// InstanceBucket stores deployed instances under their address, indexed by
// template.
type InstanceBucket struct {
	orm.Bucket
}

// NewInstanceBucket returns a bucket for managing instances.
func NewInstanceBucket() InstanceBucket {
	b := orm.NewBucket("instance", orm.NewSimpleObj(nil, &Instance{})).
		WithIndex("template", templateIndexer, false)
	return InstanceBucket{Bucket: b}
}

func templateIndexer(obj orm.Object) ([]byte, error) {
	i, ok := obj.Value().(*Instance)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return i.Template, nil
}

// GetInstance returns the instance deployed at addr or ErrNotFound.
func (b InstanceBucket) GetInstance(db weave.ReadOnlyKVStore, addr weave.Address) (*Instance, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "instance %s", addr)
	}
	i, ok := obj.Value().(*Instance)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return i, nil
}
