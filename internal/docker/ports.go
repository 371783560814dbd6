package docker

import (
	"context"
	"slices"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"

	"github.com/shinji-kodama/port-for/internal/model"
)

// containerAPI is the part of the Engine API used here. The SDK client
// satisfies it; tests substitute a fake.
type containerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
}

// PublishedPorts returns the sorted, de-duplicated host ports published
// by any container, running or stopped.
func PublishedPorts(ctx context.Context, c *Client) ([]int, error) {
	return publishedPorts(ctx, c.inner)
}

// publishedPorts collects host ports from two sources, because the list
// endpoint only reports port mappings that are currently active:
//   - running (and paused) containers: the Ports of the list summary;
//   - every other container: the configured HostConfig.PortBindings,
//     read with an inspect call. These bindings are claimed again as
//     soon as the container is restarted.
func publishedPorts(ctx context.Context, api containerAPI) ([]int, error) {
	// All includes stopped and created containers, not only running ones.
	containers, err := api.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerError, "failed to list Docker containers", err)
	}

	ports := hostPorts(containers)

	for _, c := range containers {
		if hasActivePorts(c) {
			continue
		}

		info, err := api.ContainerInspect(ctx, c.ID)
		if err != nil {
			// The container may have been removed since the list call.
			if cerrdefs.IsNotFound(err) {
				continue
			}
			return nil, model.WrapCLIError(model.ExitDockerError, "failed to inspect Docker container "+c.ID, err)
		}
		ports = append(ports, boundPorts(info)...)
	}

	slices.Sort(ports)
	return slices.Compact(ports), nil
}

// hasActivePorts reports whether the list summary of c already carries
// its live port mappings.
func hasActivePorts(c container.Summary) bool {
	switch c.State {
	case "running", "paused":
		return true
	default:
		return false
	}
}

// hostPorts collects the public side of every active port mapping in the
// list summaries. Exposed but unpublished ports (PublicPort 0) are
// skipped. The result is sorted and de-duplicated: Docker reports one
// mapping per address family, so a port published on both 0.0.0.0 and
// :: would otherwise appear twice.
func hostPorts(containers []container.Summary) []int {
	var ports []int
	for _, c := range containers {
		for _, p := range c.Ports {
			if p.PublicPort == 0 {
				continue
			}
			ports = append(ports, int(p.PublicPort))
		}
	}
	slices.Sort(ports)
	return slices.Compact(ports)
}

// boundPorts returns the host ports configured in the inspected
// container's port bindings. An empty HostPort asks Docker for a random
// port at start time, so there is nothing to reserve for it; a range such
// as "8000-8010" contributes each of its ports.
func boundPorts(info container.InspectResponse) []int {
	if info.ContainerJSONBase == nil || info.HostConfig == nil {
		return nil
	}

	var ports []int
	for _, bindings := range info.HostConfig.PortBindings {
		for _, b := range bindings {
			if b.HostPort == "" {
				continue
			}
			r, err := model.ParseRange(b.HostPort)
			if err != nil {
				continue
			}
			for p := r.Low; p <= r.High; p++ {
				ports = append(ports, p)
			}
		}
	}
	return ports
}
