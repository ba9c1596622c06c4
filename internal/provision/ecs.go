package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/smithy-go"

	"github.com/buskinglive/backend/internal/chat"
)

type ECSConfig struct {
	Cluster        string
	TaskDefinition string
	ContainerName  string
	Subnets        []string
	SecurityGroups []string
	// Домен, на котором публикуются адреса рантаймов
	EndpointDomain string
}

func ECSConfigFromEnv() ECSConfig {
	split := func(s string) []string {
		if s == "" {
			return nil
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}

	return ECSConfig{
		Cluster:        os.Getenv("CHAT_ECS_CLUSTER"),
		TaskDefinition: os.Getenv("CHAT_ECS_TASK_DEFINITION"),
		ContainerName:  os.Getenv("CHAT_ECS_CONTAINER"),
		Subnets:        split(os.Getenv("CHAT_ECS_SUBNETS")),
		SecurityGroups: split(os.Getenv("CHAT_ECS_SECURITY_GROUPS")),
		EndpointDomain: os.Getenv("CHAT_RUNTIME_DOMAIN"),
	}
}

// ECSRunner запускает по одной Fargate-задаче на комнату.
// Хэндл рантайма — ARN задачи.
type ECSRunner struct {
	client *ecs.Client
	cfg    ECSConfig
}

func NewECSRunner(ctx context.Context, cfg ECSConfig) (*ECSRunner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &ECSRunner{client: ecs.NewFromConfig(awsCfg), cfg: cfg}, nil
}

func (r *ECSRunner) Start(ctx context.Context, rc chat.RuntimeConfig) (string, string, error) {
	input := &ecs.RunTaskInput{
		Cluster:        aws.String(r.cfg.Cluster),
		TaskDefinition: aws.String(r.cfg.TaskDefinition),
		LaunchType:     ecstypes.LaunchTypeFargate,
		Count:          aws.Int32(1),
		NetworkConfiguration: &ecstypes.NetworkConfiguration{
			AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
				Subnets:        r.cfg.Subnets,
				SecurityGroups: r.cfg.SecurityGroups,
				AssignPublicIp: ecstypes.AssignPublicIpEnabled,
			},
		},
		Overrides: &ecstypes.TaskOverride{
			ContainerOverrides: []ecstypes.ContainerOverride{
				{
					Name: aws.String(r.cfg.ContainerName),
					Environment: []ecstypes.KeyValuePair{
						{Name: aws.String("ROOM_ID"), Value: aws.String(rc.RoomID.String())},
						{Name: aws.String("EVENT_ID"), Value: aws.String(rc.EventID.String())},
					},
				},
			},
		},
	}

	out, err := r.client.RunTask(ctx, input)
	if err != nil {
		return "", "", fmt.Errorf("%w: run task: %s", chat.ErrProvisioningFailed, err)
	}
	if len(out.Tasks) == 0 {
		reason := "no task started"
		if len(out.Failures) > 0 && out.Failures[0].Reason != nil {
			reason = *out.Failures[0].Reason
		}
		return "", "", fmt.Errorf("%w: %s", chat.ErrProvisioningFailed, reason)
	}

	arn := aws.ToString(out.Tasks[0].TaskArn)
	endpoint := fmt.Sprintf("wss://%s.%s/ws", taskIDFromArn(arn), r.cfg.EndpointDomain)
	return arn, endpoint, nil
}

// Stop идемпотентен: неизвестная или уже остановленная задача — не ошибка
func (r *ECSRunner) Stop(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}

	_, err := r.client.StopTask(ctx, &ecs.StopTaskInput{
		Cluster: aws.String(r.cfg.Cluster),
		Task:    aws.String(handle),
		Reason:  aws.String("chat room closed"),
	})
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidParameterException", "ClusterNotFoundException":
			return nil
		}
	}
	return fmt.Errorf("stop task %s: %w", handle, err)
}

func (r *ECSRunner) Status(ctx context.Context, handle string) chat.RuntimeStatus {
	out, err := r.client.DescribeTasks(ctx, &ecs.DescribeTasksInput{
		Cluster: aws.String(r.cfg.Cluster),
		Tasks:   []string{handle},
	})
	if err != nil || len(out.Tasks) == 0 {
		return chat.RuntimeUnknown
	}

	switch aws.ToString(out.Tasks[0].LastStatus) {
	case "PROVISIONING", "PENDING", "ACTIVATING":
		return chat.RuntimePending
	case "RUNNING":
		return chat.RuntimeRunning
	case "DEACTIVATING", "STOPPING", "DEPROVISIONING", "STOPPED":
		return chat.RuntimeStopped
	default:
		return chat.RuntimeUnknown
	}
}

// arn:aws:ecs:region:account:task/cluster/task-id -> task-id
func taskIDFromArn(arn string) string {
	if i := strings.LastIndex(arn, "/"); i >= 0 {
		return arn[i+1:]
	}
	return arn
}
