package nacos

import (
	"errors"
	"testing"

	"github.com/nacos-group/nacos-sdk-go/v2/clients/naming_client"
	"github.com/nacos-group/nacos-sdk-go/v2/model"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
)

func TestParseServerConfigs(t *testing.T) {
	cfgs, err := ParseServerConfigs("10.0.0.1:8848, 10.0.0.2:8849")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfgs) != 2 {
		t.Fatalf("expected 2 server configs, got %d", len(cfgs))
	}
	if cfgs[1].IpAddr != "10.0.0.2" || cfgs[1].Port != 8849 {
		t.Fatalf("unexpected second server config %+v", cfgs[1])
	}
}

func TestParseServerConfigsInvalid(t *testing.T) {
	for _, addrs := range []string{"", "no-port", "host:abc", "a:1:2"} {
		if _, err := ParseServerConfigs(addrs); err == nil {
			t.Errorf("expected error for %q", addrs)
		}
	}
}

// fakeNamingClient 只实现用到的方法，其余方法调用会 panic。
type fakeNamingClient struct {
	naming_client.INamingClient
	registered vo.RegisterInstanceParam
	selected   vo.SelectOneHealthInstanceParam
	instance   *model.Instance
	err        error
}

func (f *fakeNamingClient) RegisterInstance(param vo.RegisterInstanceParam) (bool, error) {
	f.registered = param
	return true, nil
}

func (f *fakeNamingClient) SelectOneHealthyInstance(param vo.SelectOneHealthInstanceParam) (*model.Instance, error) {
	f.selected = param
	return f.instance, f.err
}

func TestRegisterAdvertisesContextPath(t *testing.T) {
	fake := &fakeNamingClient{}
	c := &Client{namingClient: fake, groupName: "DEFAULT_GROUP"}

	if err := c.RegisterServiceInstance("product-service", "10.0.0.5", 8081); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fake.registered.Metadata[MetadataContextPath]; got != DefaultContextPath {
		t.Fatalf("expected context path %q, got %q", DefaultContextPath, got)
	}
}

func TestDiscoverReturnsMetadata(t *testing.T) {
	fake := &fakeNamingClient{instance: &model.Instance{
		Ip:       "10.0.0.5",
		Port:     8081,
		Metadata: map[string]string{MetadataContextPath: "/catalogo"},
	}}
	c := &Client{namingClient: fake, groupName: "tienda"}

	inst, err := c.DiscoverServiceInstance("product-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.IP != "10.0.0.5" || inst.Port != 8081 || inst.ContextPath() != "/catalogo" {
		t.Fatalf("unexpected instance %+v", inst)
	}
	if fake.selected.ServiceName != "product-service" || fake.selected.GroupName != "tienda" {
		t.Fatalf("unexpected select param %+v", fake.selected)
	}
}

func TestDiscoverErrors(t *testing.T) {
	c := &Client{namingClient: &fakeNamingClient{err: errors.New("timeout")}}
	if _, err := c.DiscoverServiceInstance("product-service"); err == nil {
		t.Fatal("expected discovery error")
	}

	c = &Client{namingClient: &fakeNamingClient{}}
	if _, err := c.DiscoverServiceInstance("product-service"); err == nil {
		t.Fatal("expected error for missing instance")
	}
}
