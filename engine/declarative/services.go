package declarative

import (
	"fmt"

	"github.com/compozy/deployconf/engine/core"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

func buildServices(declared []ServiceConfig, diags *core.Diagnostics) []core.Service {
	if len(declared) == 0 {
		return nil
	}
	services := make([]core.Service, 0, len(declared))
	for _, sc := range declared {
		if err := checkServiceURL(sc.Type, sc.URL); err != nil {
			diags.Errorf("service %q: %v", sc.Name, err)
			continue
		}
		services = append(services, core.Service{
			Type:    sc.Type,
			Name:    sc.Name,
			Version: sc.Version,
			URL:     sc.URL,
			Options: sc.Options,
		})
	}
	return services
}

// checkServiceURL parses the connection URL of an externally managed
// service without connecting to it.
func checkServiceURL(kind core.ServiceType, url string) error {
	if url == "" {
		return nil
	}
	switch kind {
	case core.ServiceRedis:
		if _, err := redis.ParseURL(url); err != nil {
			return fmt.Errorf("invalid redis url: %w", err)
		}
	case core.ServicePostgres:
		if _, err := pgx.ParseConfig(url); err != nil {
			return fmt.Errorf("invalid postgres url: %w", err)
		}
	default:
		return fmt.Errorf("unknown service type %q", kind)
	}
	return nil
}
